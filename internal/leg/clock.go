package leg

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// ParseClock parses a 12-hour clock ("3:05 PM", "03:05 pm", "3:05PM") into
// 24-hour hour and minute. A plain 24-hour clock ("15:05") is accepted too.
func ParseClock(s string) (hour, minute int, err error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, parseErr := time.Parse(layout, value)
		if parseErr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}
