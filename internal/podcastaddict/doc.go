// Package podcastaddict reads subscriptions and listening history from a
// Podcast Addict backup.
//
// A backup is a zip archive (PodcastAddict*.backup) wrapping the app's SQLite
// database. Extract unpacks it once into a working directory; Store then
// queries the database read-only for subscribed feeds with their tags,
// episodes that carry history worth transferring (played, in progress or
// downloaded) and extracted chapter marks.
package podcastaddict
