// Package model defines the data structures shared by the itinerary search engine.
//
// This package contains the following main types:
//   - Airport: An immutable station loaded from the route catalog
//   - RawLeg: A flight exactly as the leg fetcher reports it
//   - Leg: A normalized flight with absolute departure and arrival instants
//   - Itinerary: One or more legs forming a cycle-free travelable path
//   - SearchResult: The sorted itineraries of one search plus its Outcome
//
// The models are serializable to JSON for report output and cache storage.
package model
