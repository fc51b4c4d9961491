// Package models defines domain entities for the tempodl playlist downloader.
//
// The package contains three categories of types:
//
// 1. Boundary types: parsed once from remote API responses
//   - [Playlist] : Title and complete ordered track listing
//   - [Track] : Song name, first artist and tempo (BPM)
//   - [Video] : A search hit on the video platform
//
// 2. Outcomes: values returned by the download pipeline
//   - [TrackResult] : Succeeded, skipped or failed, with the written path or the reason
//   - [RunSummary] : Per-run counters (attempted, succeeded, skipped, failed)
//
// 3. Persistent entities implementing [Model]
//   - [TempoEntry] : Cached tempo keyed by Spotify track ID
package models
