package model

// Airport is a station from the route catalog.
// Airports are loaded once at startup and never mutated.
type Airport struct {
	// Code is the unique 3-letter IATA code (upper case).
	Code string `json:"code" yaml:"code"`

	// Name is the display name of the airport or its city.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Country is the display name of the airport's country.
	Country string `json:"country,omitempty" yaml:"country,omitempty"`

	// Latitude and Longitude are decimal degrees.
	// They are meaningful only when HasLocation is true.
	Latitude  float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`

	// HasLocation reports whether the catalog supplied coordinates.
	HasLocation bool `json:"has_location" yaml:"-"`
}

// DisplayName returns the name if present, otherwise the code.
func (a Airport) DisplayName() string {
	if a.Name == "" {
		return a.Code
	}
	return a.Name
}
