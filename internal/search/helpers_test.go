package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/fetcher"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/route"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/throttle"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var march10 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// fakeFetcher serves canned legs by cache key. Unknown keys are bad requests.
// Queued errors for a key are returned first, one per call.
type fakeFetcher struct {
	mu    sync.Mutex
	legs  map[string][]model.RawLeg
	errs  map[string][]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		legs: make(map[string][]model.RawLeg),
		errs: make(map[string][]error),
	}
}

func (f *fakeFetcher) add(legs ...model.RawLeg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range legs {
		date, _ := model.ParseDate(l.DepartureDate)
		key := cache.Key(l.DepartureStation, l.ArrivalStation, date)
		f.legs[key] = append(f.legs[key], l)
	}
}

func (f *fakeFetcher) fail(key string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = append(f.errs[key], errs...)
}

func (f *fakeFetcher) Fetch(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := cache.Key(origin, destination, date)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if queued := f.errs[key]; len(queued) > 0 {
		f.errs[key] = queued[1:]
		return nil, queued[0]
	}
	legs, ok := f.legs[key]
	if !ok {
		return nil, fetcher.BadRequest(fmt.Errorf("no flights %s", key))
	}
	return legs, nil
}

func (f *fakeFetcher) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if key == "" || c == key {
			n++
		}
	}
	return n
}

func (f *fakeFetcher) allCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// rawLeg builds a UTC leg on date with 12-hour clock strings.
func rawLeg(origin, dest, date, dep, arr string) model.RawLeg {
	return model.RawLeg{
		DepartureStation: origin,
		ArrivalStation:   dest,
		DepartureDate:    date,
		DepartureTime:    dep,
		ArrivalTime:      arr,
		DepartureOffset:  "UTC",
		ArrivalOffset:    "UTC",
		FlightCode:       origin + dest + dep,
	}
}

// edge is a catalog edge "A>B" with optional flight dates.
type edge struct {
	from, to string
	dates    []string
}

func catalogOf(edges ...edge) *route.Catalog {
	c := &route.Catalog{}
	for _, e := range edges {
		c.Routes = append(c.Routes, route.CatalogRoute{
			Origin:       e.from,
			Destinations: []route.CatalogEdge{{Code: e.to, FlightDates: e.dates}},
		})
	}
	return c
}

// recorder records waits without sleeping.
type recorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recorder) contains(d time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.waits {
		if w == d {
			return true
		}
	}
	return false
}

type harness struct {
	graph    *route.Graph
	fetcher  *fakeFetcher
	cache    *cache.LegCache
	throttle *throttle.Throttle
	waits    *recorder
	composer *Composer
}

func newHarness(t *testing.T, catalog *route.Catalog, tweak ...func(*Options)) *harness {
	t.Helper()

	g, err := route.New(catalog)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}

	opts := DefaultOptions()
	opts.RetryBaseDelay = 10 * time.Millisecond
	for _, fn := range tweak {
		fn(&opts)
	}

	rec := &recorder{}
	f := newFakeFetcher()
	lc := cache.New(cache.NewMemoryStore(), 4*time.Hour, cache.WithLogger(quiet))
	th := throttle.New(throttle.Config{MaxConsecutive: 50}, throttle.WithSleep(rec.sleep), throttle.WithLogger(quiet))

	c := NewComposer(g, lc, th, f,
		WithOptions(opts),
		WithLogger(quiet),
		WithSleep(rec.sleep),
		WithClock(func() time.Time { return march10.Add(-24 * time.Hour) }),
	)
	return &harness{graph: g, fetcher: f, cache: lc, throttle: th, waits: rec, composer: c}
}

func baseQuery(origins, destinations []string, transfers int) Query {
	return Query{
		Origins:       origins,
		Destinations:  destinations,
		Date:          march10,
		MaxTransfers:  transfers,
		MaxDayOffset:  1,
		MinConnection: 90 * time.Minute,
		MaxConnection: 1440 * time.Minute,
	}
}

// collectSink records everything it receives.
type collectSink struct {
	mu        sync.Mutex
	appended  []model.Itinerary
	progress  []string
	lastTotal int
}

func (s *collectSink) Append(it model.Itinerary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, it)
}

func (s *collectSink) Progress(current, total int, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, fmt.Sprintf("%d/%d %s", current, total, label))
	s.lastTotal = total
}
