// Package logging assembles the structured slog loggers used by podalign.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so planner code tags its log lines
// with the run ID and the feed being processed. NewNop serves tests and
// wiring code that cannot fail.
package logging
