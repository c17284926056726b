// Package route defines the tracked route entity, its wire decoding, and the
// display ordering used by the console.
//
// # Overview
//
// A Route is identified by a stable opaque ID. Two routes with the same ID in
// consecutive snapshots are the same real-world route; every other field is
// server data that is replaced on each poll. The only exception is
// ClientState, which the console owns and which Migrate carries from one
// snapshot to the next.
//
// Optional payload fields (driver, timestamps) are pointers. A nil pointer
// means the backend did not send the field.
//
// # Decoding
//
// DecodeAll parses a list of raw JSON records and skips the malformed ones
// (not an object, empty id, unknown status), returning a DecodeError for
// each. Timestamps accept RFC3339Nano, RFC3339, and the backend's
// "2006-01-02 15:04:05" local format; unparseable timestamps become nil.
//
// # Ordering
//
// Compare is a pure comparator. It consults a Flagger for the flagged-first
// rule and nothing else, so sorting the same input twice always yields the
// same order:
//
//	sorted := route.Sorted(snapshot.Value, flagStore)
//
// Status ranks follow the declared order in Statuses, not the alphabet.
package route
