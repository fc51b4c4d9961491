// Package repositories implements SQLite persistence for the tempo cache.
//
// Key Implementations:
//   - [TempoRepository] : CRUD over tempo_cache rows keyed by Spotify track ID
//   - [TempoCacheAdapter] : Lookup/store facade consumed by the Spotify reader
//
// The cache only remembers audio-feature tempo values between runs. It records nothing about download
// progress, so deleting the database never changes what a run downloads.
//
// [NextSequence] atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
