package search

import "github.com/deniam/AllYouCanFlyPro-sub000/internal/model"

// Sink receives itineraries as they are found and progress updates.
// Calls are serialized by the composer.
type Sink interface {
	Append(it model.Itinerary)
	Progress(current, total int, label string)
}

// NopSink discards everything.
type NopSink struct{}

// Append does nothing.
func (NopSink) Append(model.Itinerary) {}

// Progress does nothing.
func (NopSink) Progress(int, int, string) {}

// SinkFuncs adapts optional callbacks to a Sink.
type SinkFuncs struct {
	OnAppend   func(it model.Itinerary)
	OnProgress func(current, total int, label string)
}

// Append calls OnAppend if set.
func (s SinkFuncs) Append(it model.Itinerary) {
	if s.OnAppend != nil {
		s.OnAppend(it)
	}
}

// Progress calls OnProgress if set.
func (s SinkFuncs) Progress(current, total int, label string) {
	if s.OnProgress != nil {
		s.OnProgress(current, total, label)
	}
}

// progressOnly forwards progress and drops appends.
type progressOnly struct {
	next Sink
}

func (p progressOnly) Append(model.Itinerary) {}

func (p progressOnly) Progress(current, total int, label string) {
	p.next.Progress(current, total, label)
}
