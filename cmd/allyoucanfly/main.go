// Package main provides the entry point for the allyoucanfly CLI.
//
// allyoucanfly searches direct and connecting flight itineraries over a
// date-gated route network served by a rate-limited endpoint.
//
// Usage:
//
//	allyoucanfly search BUD LON --date 2025-03-10 --transfers 1
//	allyoucanfly routes BUD --date 2025-03-10
//
// See --help for all available options.
package main

func main() {
	Execute()
}
