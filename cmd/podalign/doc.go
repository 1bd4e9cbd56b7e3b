// Package main hosts the podalign CLI.
//
// The Cobra command tree discovers the Podcast Addict backup and the
// AntennaPod export in the configured work directory, unpacks the backup and
// reports how listening history would carry over: feed pairing, per-feed
// episode alignment and the resulting actions. The align command exposes the
// matcher directly on two plain title lists. Nothing here writes to either
// database.
package main
