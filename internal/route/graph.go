package route

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Wildcard expands to every origin in the catalog.
const Wildcard = "ANY"

// Edge is a published origin to destination connection.
type Edge struct {
	Origin      string
	Destination string

	// FlightDates is the authoritative set of operating dates (YYYY-MM-DD).
	// A nil set means the edge is assumed available on any date.
	FlightDates map[string]struct{}

	// OperationStart is the first date the edge exists; zero when unknown.
	OperationStart time.Time
}

// ValidOn reports whether the edge may be queried for the given date.
func (e *Edge) ValidOn(date time.Time) bool {
	day := model.Day(date)
	if !e.OperationStart.IsZero() && day.Before(e.OperationStart) {
		return false
	}
	if e.FlightDates == nil {
		return true
	}
	_, ok := e.FlightDates[model.FormatDate(day)]
	return ok
}

// Graph is the read-only route network.
type Graph struct {
	airports map[string]model.Airport
	edges    map[string][]*Edge
	index    map[string]map[string]*Edge
	inbound  map[string][]string
	groups   map[string][]string
	origins  []string
}

// New builds a Graph from a catalog.
// Duplicate edges are merged with the union of their flight dates. Airports
// referenced only by routes are added with code-only metadata.
func New(catalog *Catalog) (*Graph, error) {
	g := &Graph{
		airports: make(map[string]model.Airport),
		edges:    make(map[string][]*Edge),
		index:    make(map[string]map[string]*Edge),
		inbound:  make(map[string][]string),
		groups:   make(map[string][]string),
	}
	if catalog == nil {
		return g, nil
	}

	title := cases.Title(language.English)
	for _, a := range catalog.Airports {
		code, err := normalizeCode(a.Code)
		if err != nil {
			return nil, err
		}
		a.Code = code
		a.Name = displayText(title, a.Name)
		a.Country = displayText(title, a.Country)
		g.airports[code] = a
	}

	for _, r := range catalog.Routes {
		origin, err := normalizeCode(r.Origin)
		if err != nil {
			return nil, err
		}
		for _, d := range r.Destinations {
			if err := g.addEdge(origin, d); err != nil {
				return nil, fmt.Errorf("route %s: %w", origin, err)
			}
		}
	}

	for code, members := range catalog.Groups {
		group := strings.ToUpper(strings.TrimSpace(code))
		for _, m := range members {
			member, err := normalizeCode(m)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", group, err)
			}
			if !slices.Contains(g.groups[group], member) {
				g.groups[group] = append(g.groups[group], member)
			}
		}
		slices.Sort(g.groups[group])
	}

	for origin, list := range g.edges {
		slices.SortFunc(list, func(a, b *Edge) int { return strings.Compare(a.Destination, b.Destination) })
		g.origins = append(g.origins, origin)
	}
	slices.Sort(g.origins)
	for dest := range g.inbound {
		slices.Sort(g.inbound[dest])
	}

	return g, nil
}

func (g *Graph) addEdge(origin string, entry CatalogEdge) error {
	dest, err := normalizeCode(entry.Code)
	if err != nil {
		return err
	}

	var start time.Time
	if entry.OperationStart != "" {
		start, err = model.ParseDate(entry.OperationStart)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, entry.OperationStart)
		}
	}

	var dates map[string]struct{}
	if len(entry.FlightDates) > 0 {
		dates = make(map[string]struct{}, len(entry.FlightDates))
		for _, raw := range entry.FlightDates {
			d, err := model.ParseDate(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidDate, raw)
			}
			dates[model.FormatDate(d)] = struct{}{}
		}
	}

	g.ensureAirport(origin)
	g.ensureAirport(dest)

	if existing, ok := g.index[origin][dest]; ok {
		existing.merge(dates, start)
		return nil
	}

	edge := &Edge{Origin: origin, Destination: dest, FlightDates: dates, OperationStart: start}
	if g.index[origin] == nil {
		g.index[origin] = make(map[string]*Edge)
	}
	g.index[origin][dest] = edge
	g.edges[origin] = append(g.edges[origin], edge)
	g.inbound[dest] = append(g.inbound[dest], origin)
	return nil
}

// merge folds a duplicate catalog entry into the edge. An unrestricted
// duplicate keeps the edge unrestricted.
func (e *Edge) merge(dates map[string]struct{}, start time.Time) {
	if e.FlightDates == nil || dates == nil {
		e.FlightDates = nil
	} else {
		for d := range dates {
			e.FlightDates[d] = struct{}{}
		}
	}
	if start.IsZero() || (!e.OperationStart.IsZero() && start.Before(e.OperationStart)) {
		e.OperationStart = start
	}
}

func (g *Graph) ensureAirport(code string) {
	if _, ok := g.airports[code]; !ok {
		g.airports[code] = model.Airport{Code: code}
	}
}

// Neighbors returns the destinations reachable from origin, sorted.
func (g *Graph) Neighbors(origin string) []string {
	list := g.edges[origin]
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Destination
	}
	return out
}

// Edge returns the edge between origin and destination.
func (g *Graph) Edge(origin, destination string) (*Edge, bool) {
	e, ok := g.index[origin][destination]
	return e, ok
}

// EdgeExists reports whether origin to destination is published.
func (g *Graph) EdgeExists(origin, destination string) bool {
	_, ok := g.index[origin][destination]
	return ok
}

// IsDateValid reports whether origin to destination may be queried on date.
// It is false when the edge does not exist.
func (g *Graph) IsDateValid(origin, destination string, date time.Time) bool {
	e, ok := g.index[origin][destination]
	if !ok {
		return false
	}
	return e.ValidOn(date)
}

// HasDateWithin reports whether the edge is valid on at least one day in
// [from, to], both inclusive.
func (g *Graph) HasDateWithin(origin, destination string, from, to time.Time) bool {
	e, ok := g.index[origin][destination]
	if !ok {
		return false
	}
	for day := model.Day(from); !day.After(model.Day(to)); day = day.AddDate(0, 0, 1) {
		if e.ValidOn(day) {
			return true
		}
	}
	return false
}

// Inbound returns the origins with an edge into destination, sorted.
func (g *Graph) Inbound(destination string) []string {
	return slices.Clone(g.inbound[destination])
}

// Origins returns every station with at least one outgoing edge, sorted.
func (g *Graph) Origins() []string {
	return slices.Clone(g.origins)
}

// Airport looks up an airport by code.
func (g *Graph) Airport(code string) (model.Airport, bool) {
	a, ok := g.airports[code]
	return a, ok
}

// Group returns the members of a multi-airport group.
func (g *Graph) Group(code string) ([]string, bool) {
	members, ok := g.groups[code]
	return slices.Clone(members), ok
}

// Expand resolves a station, group code or the wildcard into airport codes.
func (g *Graph) Expand(code string) ([]string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == Wildcard {
		return g.Origins(), nil
	}
	if members, ok := g.groups[c]; ok {
		return slices.Clone(members), nil
	}
	if _, ok := g.airports[c]; ok {
		return []string{c}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStation, code)
}

// ExpandAll resolves every code and returns the de-duplicated union in input order.
func (g *Graph) ExpandAll(codes []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, code := range codes {
		members, err := g.Expand(code)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func normalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAirportCode, code)
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidAirportCode, code)
		}
	}
	return c, nil
}

// displayText title-cases names that the catalog supplies in all caps.
func displayText(title cases.Caser, s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ToUpper(s) != s {
		return s
	}
	return title.String(s)
}
