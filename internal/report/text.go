package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// TextWriter outputs human-readable text reports for terminal display.
type TextWriter struct {
	baseWriter

	// verbose adds per-leg detail and the fetch statistics.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *TextWriter) Write(result *model.SearchResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeItineraries(&sb, result)
	w.writeFooter(&sb, result)

	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeHeader(sb *strings.Builder, result *model.SearchResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         FLIGHT SEARCH\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("From:        %s\n", strings.Join(result.Origins, ", ")))
	sb.WriteString(fmt.Sprintf("To:          %s\n", strings.Join(result.Destinations, ", ")))
	sb.WriteString(fmt.Sprintf("Date:        %s\n", result.Date))
	if len(result.ReturnDates) > 0 {
		sb.WriteString(fmt.Sprintf("Return:      %s\n", strings.Join(result.ReturnDates, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Itineraries: %d\n", len(result.Itineraries)))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", StatusText(result.Status())))
	sb.WriteString("\n")
}

func (w *TextWriter) writeItineraries(sb *strings.Builder, result *model.SearchResult) {
	if len(result.Itineraries) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ITINERARIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i, it := range result.Itineraries {
		w.writeItinerary(sb, fmt.Sprintf("%d.", i+1), "", it)
		for j, ret := range it.Returns {
			w.writeItinerary(sb, fmt.Sprintf("%d.%d", i+1, j+1), "    return ", ret)
		}
		sb.WriteString("\n")
	}
}

func (w *TextWriter) writeItinerary(sb *strings.Builder, index, prefix string, it model.Itinerary) {
	sb.WriteString(fmt.Sprintf("%s %s%s  %s  %s\n",
		index, prefix, it.Route(), stopsText(it), FormatDuration(it.Duration())))

	first, last := it.Legs[0], it.Legs[len(it.Legs)-1]
	sb.WriteString(fmt.Sprintf("    depart %s  arrive %s\n",
		formatLocal(first.LocalDeparture, first.DepartureOffset),
		formatLocal(last.LocalArrival, last.ArrivalOffset)))

	if len(it.Legs) > 1 {
		sb.WriteString(fmt.Sprintf("    connections: %s\n", connectionsText(it)))
	}
	if c := it.AirportChange; c != nil {
		sb.WriteString(fmt.Sprintf("    airport change: %s -> %s (%.1f km)\n", c.From, c.To, c.DistanceKm))
	}

	if !w.verbose {
		return
	}
	for _, l := range it.Legs {
		sb.WriteString(fmt.Sprintf("      * %s %s-%s %s -> %s  %s\n",
			flightOf(l), l.Origin, l.Destination,
			l.LocalDeparture.Format("15:04"), l.LocalArrival.Format("15:04"),
			FormatDuration(l.Duration)))
		if l.Fare.Amount > 0 {
			sb.WriteString(fmt.Sprintf("        fare: %.2f %s\n", l.Fare.Amount, l.Fare.Currency))
		}
	}
}

func (w *TextWriter) writeFooter(sb *strings.Builder, result *model.SearchResult) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if w.verbose {
		o := result.Outcome
		sb.WriteString(fmt.Sprintf("Fetches: %d  Cache hits: %d  Failed hops: %d\n", o.Fetches, o.CacheHits, o.FailedHops))
	}
	sb.WriteString(fmt.Sprintf("Search took %s\n", result.Elapsed))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func flightOf(l model.Leg) string {
	if l.FlightCode != "" {
		return l.FlightCode
	}
	return "-"
}
