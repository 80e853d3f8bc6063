package leg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// offsetPattern matches the signed part of an offset after any "UTC"/"GMT" prefix:
// "+1", "-3", "+0530", "+05:30", "5".
var offsetPattern = regexp.MustCompile(`^([+-]?)(\d{1,2})(?::?(\d{2}))?$`)

// NormalizeOffset converts offset text into the signed "+HH:MM" form.
// "UTC", "GMT" and "" map to "+00:00", "UTC+1" becomes "+01:00" and an
// already normalized value is returned unchanged.
func NormalizeOffset(s string) (string, error) {
	minutes, err := offsetMinutes(s)
	if err != nil {
		return "", err
	}
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60), nil
}

// ParseOffset returns the offset as a duration east of UTC.
func ParseOffset(s string) (time.Duration, error) {
	minutes, err := offsetMinutes(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

func offsetMinutes(s string) (int, error) {
	body := strings.ToUpper(strings.TrimSpace(s))
	for _, prefix := range []string{"UTC", "GMT"} {
		body = strings.TrimPrefix(body, prefix)
	}
	body = strings.ReplaceAll(body, " ", "")
	if body == "" || body == "Z" {
		return 0, nil
	}

	m := offsetPattern.FindStringSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	hours, _ := strconv.Atoi(m[2])
	mins := 0
	if m[3] != "" {
		mins, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || mins > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidOffset, s)
	}

	total := hours*60 + mins
	if m[1] == "-" {
		total = -total
	}
	return total, nil
}
