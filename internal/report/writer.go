package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Writer renders a finished search.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.SearchResult) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.SearchResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// StatusText describes a result status for people.
func StatusText(status model.Status) string {
	switch status {
	case model.StatusComplete:
		return "Complete"
	case model.StatusNoResults:
		return "No itineraries found"
	case model.StatusAborted:
		return "Aborted (partial results)"
	case model.StatusUnreachable:
		return "Flight data source unreachable"
	default:
		return string(status)
	}
}

// FormatDuration renders a duration as "2h 05m".
func FormatDuration(d model.Duration) string {
	return fmt.Sprintf("%dh %02dm", d.Hours, d.Minutes)
}

// formatGap renders a connection gap the same way as a duration.
func formatGap(gap time.Duration) string {
	return FormatDuration(model.NewDuration(int(gap.Round(time.Minute).Minutes())))
}

// formatLocal renders a local timestamp with its UTC offset.
func formatLocal(t time.Time, offset string) string {
	return t.Format("2006-01-02 15:04") + " (UTC" + offset + ")"
}

// stopsText describes the number of stops of an itinerary.
func stopsText(it model.Itinerary) string {
	switch n := len(it.Legs) - 1; n {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", n)
	}
}

// connectionsText lists connection gaps, including any airport change.
func connectionsText(it model.Itinerary) string {
	gaps := it.Connections()
	if len(gaps) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(gaps))
	for i, gap := range gaps {
		at := it.Legs[i].Destination
		if next := it.Legs[i+1].Origin; next != at {
			at += ">" + next
		}
		parts = append(parts, at+" "+formatGap(gap))
	}
	return strings.Join(parts, ", ")
}

// flightsText lists the flight codes of an itinerary.
func flightsText(it model.Itinerary) string {
	codes := make([]string, 0, len(it.Legs))
	for _, l := range it.Legs {
		code := l.FlightCode
		if code == "" {
			code = l.Origin + l.Destination
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, " / ")
}
