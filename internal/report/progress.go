package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Progress prints search progress and, when streaming, each itinerary as it
// is found. It is safe for concurrent use.
type Progress struct {
	mu     sync.Mutex
	output io.Writer
	stream bool
	found  int
	last   string
}

// NewProgress creates a Progress writing to output. When stream is false
// only progress updates are printed.
func NewProgress(output io.Writer, stream bool) *Progress {
	return &Progress{output: output, stream: stream}
}

// Append prints one found itinerary.
func (p *Progress) Append(it model.Itinerary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.found++
	if !p.stream {
		return
	}
	first, last := it.Legs[0], it.Legs[len(it.Legs)-1]
	fmt.Fprintf(p.output, "  + %s  %s -> %s  %s  %s\n",
		it.Route(),
		formatLocal(first.LocalDeparture, first.DepartureOffset),
		formatLocal(last.LocalArrival, last.ArrivalOffset),
		FormatDuration(it.Duration()),
		stopsText(it),
	)
	for _, ret := range it.Returns {
		fmt.Fprintf(p.output, "      return %s  %s  %s\n",
			ret.Route(),
			formatLocal(ret.Legs[0].LocalDeparture, ret.Legs[0].DepartureOffset),
			FormatDuration(ret.Duration()),
		)
	}
}

// Progress prints "[current/total] label" once per distinct update.
func (p *Progress) Progress(current, total int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("[%d/%d] %s", current, total, label)
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.output, line)
}

// Found returns the number of itineraries appended so far.
func (p *Progress) Found() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.found
}
