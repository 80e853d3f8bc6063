// Package search implements the itinerary composer and the round-trip matcher.
//
// The Composer turns a Query into itineraries using three strategies:
//   - direct: one-leg itineraries for every published, date-valid pair
//   - multi-stop: depth-first enumeration of simple paths over the route
//     graph, resolved hop by hop under connection-time limits
//   - airport change: one-stop itineraries whose change airports lie within
//     a great-circle radius of each other
//
// Every hop goes through the leg cache, then the request throttle, then the
// leg fetcher. A hop that fails after its retry budget abandons only the
// candidates that need it. Cancelling the context stops the search and the
// itineraries found so far are returned with Outcome.Aborted set.
//
// The Matcher runs the Composer outbound and inbound and pairs the results
// under a minimum turnaround.
package search
