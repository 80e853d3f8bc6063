package route

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Catalog is the raw route network as read from disk.
// JSON catalogs are accepted too since YAML is a superset of JSON.
type Catalog struct {
	Airports []model.Airport     `yaml:"airports"`
	Routes   []CatalogRoute      `yaml:"routes"`
	Groups   map[string][]string `yaml:"groups"`
}

// CatalogRoute is one published origin and its reachable destinations.
type CatalogRoute struct {
	Origin       string        `yaml:"origin"`
	Destinations []CatalogEdge `yaml:"destinations"`
}

// CatalogEdge is one destination entry of a route.
// FlightDates is the authoritative sparse set of operating dates; when empty
// the edge is assumed available on any date. OperationStart is the first date
// on which the edge exists.
type CatalogEdge struct {
	Code           string   `yaml:"code"`
	FlightDates    []string `yaml:"flightDates,omitempty"`
	OperationStart string   `yaml:"operationStart,omitempty"`
}

// catalogAirport is the on-disk airport form; coordinates are optional.
type catalogAirport struct {
	Code      string   `yaml:"code"`
	Name      string   `yaml:"name"`
	Country   string   `yaml:"country"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

type catalogFile struct {
	Airports []catalogAirport    `yaml:"airports"`
	Routes   []CatalogRoute      `yaml:"routes"`
	Groups   map[string][]string `yaml:"groups"`
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("failed to read route catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML or JSON catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse route catalog: %w", err)
	}

	catalog := &Catalog{
		Airports: make([]model.Airport, 0, len(file.Airports)),
		Routes:   file.Routes,
		Groups:   file.Groups,
	}
	for _, a := range file.Airports {
		airport := model.Airport{Code: a.Code, Name: a.Name, Country: a.Country}
		if a.Latitude != nil && a.Longitude != nil {
			airport.Latitude = *a.Latitude
			airport.Longitude = *a.Longitude
			airport.HasLocation = true
		}
		catalog.Airports = append(catalog.Airports, airport)
	}
	return catalog, nil
}
