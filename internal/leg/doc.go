// Package leg converts raw fetched flights into normalized legs.
//
// A raw flight carries 12-hour local clock strings and a free-form UTC offset
// for each endpoint. Normalize resolves both endpoints to absolute UTC
// instants, corrects arrivals that silently roll into the next day, and
// computes a whole-minute duration.
package leg
