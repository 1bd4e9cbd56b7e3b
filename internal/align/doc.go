// Package align pairs the records of two ordered sequences using weighted
// multi-field similarity.
//
// A Matcher is built once from a set of Comparators, each of which projects a
// record onto a field (title, URL, duration, ...) and scores two projections
// in [0, 1]. The combined score of a record pair is the weighted average of
// its field scores.
//
// Align walks the primary sequence in order and, for each element, scans the
// secondary elements not yet claimed:
//
//   - a candidate scoring at or above the lock-in threshold is taken
//     immediately and the scan stops
//   - otherwise the best candidate wins (first one on ties), provided it
//     reaches the minimum similarity
//
// Claimed secondary elements are never offered again. The assignment is greedy
// in primary order, not globally optimal: earlier primary elements win
// contested candidates. Callers that need a deterministic outcome under
// ambiguity must control the primary ordering.
//
// Elements without an acceptable match are reported as Unmatched, which
// callers can feed into their own fallback (exact key matching and so on).
package align
