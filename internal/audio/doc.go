// Package audio plays card pronunciations. A Player owns a single
// playback handle: every Play reassigns it, which stops whatever was
// playing before. Files are downloaded from the flashcard service into a
// per-run cache directory and handed to a Backend, normally the platform's
// command line audio player.
package audio
