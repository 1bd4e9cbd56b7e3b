// Package migrate plans the transfer of listening history from a Podcast
// Addict backup onto an AntennaPod database.
//
// Feeds are paired by exact feed URL. Within each pair the unread AntennaPod
// items are aligned against the Podcast Addict episodes that carry history,
// using the fuzzy title matcher from package align, with an exact download
// URL fallback for items the matcher leaves unmatched. Every match becomes an
// Action describing what would be written to the target. The package never
// writes to either database; the Plan is a report.
package migrate
