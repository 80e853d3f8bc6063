// Package fetcher defines the leg fetcher boundary of the search engine.
//
// A Fetcher returns the raw legs offered for one (origin, destination, date)
// query or fails with an *Error carrying a Kind:
//   - KindRateLimited: the server asked us to slow down; Tier says how much
//   - KindBadRequest: the server rejected the query, meaning no flights offered
//   - KindMalformed: the response could not be decoded
//   - KindTransport: the request never produced a usable response
//
// HTTP talks to the signed query endpoint, optionally through a SOCKS5 proxy.
// Dir serves recorded responses from a directory for offline runs.
package fetcher
