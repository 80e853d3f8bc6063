package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// JSONReport is the document written by JSONWriter. Status is derived from
// the outcome so consumers need not repeat the rules.
type JSONReport struct {
	Version    string              `json:"version,omitempty"`
	Status     model.Status        `json:"status"`
	StatusText string              `json:"status_text"`
	Summary    JSONSummary         `json:"summary"`
	Result     *model.SearchResult `json:"result"`
}

// JSONSummary counts the itineraries of a result by shape.
type JSONSummary struct {
	Itineraries    int         `json:"itineraries"`
	Returns        int         `json:"returns"`
	AirportChanges int         `json:"airport_changes"`
	ByStops        map[int]int `json:"by_stops"`
}

// JSONWriter writes a result as one JSONReport document for tool integration.
type JSONWriter struct {
	baseWriter

	prefix  string
	indent  string
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents the document with prefix and indent, as json.MarshalIndent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents the document by two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the program version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter writing to output. Without options the
// document is compact and ends with a newline.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes the result. Nothing is written if encoding fails.
func (w *JSONWriter) Write(result *model.SearchResult) (int, error) {
	doc := JSONReport{
		Version:    w.version,
		Status:     result.Status(),
		StatusText: StatusText(result.Status()),
		Summary:    summarize(result.Itineraries),
		Result:     result,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(doc); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

func summarize(its []model.Itinerary) JSONSummary {
	s := JSONSummary{Itineraries: len(its), ByStops: make(map[int]int)}
	for _, it := range its {
		s.Returns += len(it.Returns)
		if it.AirportChange != nil {
			s.AirportChanges++
		}
		s.ByStops[len(it.Legs)-1]++
	}
	return s
}
