package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// MarkdownWriter outputs results as a Markdown document with one table of
// itineraries and, for round trips, one table of returns per outbound.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.SearchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeAlert(md, result)
	w.writeItineraries(md, result)
	w.writeFooter(md, result)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.SearchResult) {
	md.H1("Flight Search: " + strings.Join(result.Origins, ", ") + " to " + strings.Join(result.Destinations, ", "))
	md.PlainText("")

	rows := [][]string{
		{"Date", result.Date},
	}
	if len(result.ReturnDates) > 0 {
		rows = append(rows, []string{"Return", strings.Join(result.ReturnDates, ", ")})
	}
	rows = append(rows,
		[]string{"Itineraries", strconv.Itoa(len(result.Itineraries))},
		[]string{"Status", StatusText(result.Status())},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.SearchResult) {
	switch result.Status() {
	case model.StatusAborted:
		md.Warningf("The search was cancelled. %d itinerary(ies) found before cancellation are listed.", len(result.Itineraries))
	case model.StatusUnreachable:
		md.Cautionf("The flight data source could not be reached. %d hop(s) failed.", result.Outcome.FailedHops)
	case model.StatusNoResults:
		md.Note("No itineraries match the search.")
	default:
		return
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeItineraries(md *markdown.Markdown, result *model.SearchResult) {
	if len(result.Itineraries) == 0 {
		return
	}

	md.H2("Itineraries")
	md.PlainText("")
	md.Table(itineraryTable(result.Itineraries))
	md.PlainText("")

	if stops := stopDistribution(result.Itineraries); len(stops) > 1 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Itineraries by Stops"),
			piechart.WithShowData(true),
		)
		for _, s := range stops {
			chart.LabelAndIntValue(s.label, s.count)
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	for i, it := range result.Itineraries {
		if len(it.Returns) == 0 {
			continue
		}
		md.H3("Returns for " + strconv.Itoa(i+1) + ". " + it.Route())
		md.PlainText("")
		md.Table(itineraryTable(it.Returns))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, result *model.SearchResult) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d fetches, %d cache hits, search took %s*",
		result.Outcome.Fetches, result.Outcome.CacheHits, result.Elapsed)
}

func itineraryTable(its []model.Itinerary) markdown.TableSet {
	rows := make([][]string, 0, len(its))
	for i, it := range its {
		first, last := it.Legs[0], it.Legs[len(it.Legs)-1]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + it.Route() + "`",
			formatLocal(first.LocalDeparture, first.DepartureOffset),
			formatLocal(last.LocalArrival, last.ArrivalOffset),
			FormatDuration(it.Duration()),
			stopsText(it),
			connectionsText(it),
			flightsText(it),
		})
	}
	return markdown.TableSet{
		Header: []string{"#", "Route", "Departure", "Arrival", "Duration", "Stops", "Connections", "Flights"},
		Rows:   rows,
	}
}

type stopCount struct {
	label string
	count uint64
}

// stopDistribution counts itineraries per stop label in first-seen order.
func stopDistribution(its []model.Itinerary) []stopCount {
	var out []stopCount
	index := make(map[string]int)
	for _, it := range its {
		label := stopsText(it)
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, stopCount{label: label})
		}
		out[i].count++
	}
	return out
}
