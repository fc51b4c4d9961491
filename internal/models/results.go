package models

import "fmt"

// Status is the outcome of processing one track.
type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TrackResult is returned by a fetcher for every track it was asked to process.
//
// Path is set only when Status is [StatusSucceeded]; Err only when it is [StatusFailed] (or carries
// the reason a track was skipped).
type TrackResult struct {
	Track  Track
	Status Status
	Video  *Video
	Path   string
	Err    error
}

// Succeeded builds a successful [TrackResult].
func Succeeded(track Track, video *Video, path string) TrackResult {
	return TrackResult{Track: track, Status: StatusSucceeded, Video: video, Path: path}
}

// Skipped builds a [TrackResult] for a track with no match.
func Skipped(track Track, reason error) TrackResult {
	return TrackResult{Track: track, Status: StatusSkipped, Err: reason}
}

// Failed builds a [TrackResult] for a track whose download failed.
func Failed(track Track, video *Video, err error) TrackResult {
	return TrackResult{Track: track, Status: StatusFailed, Video: video, Err: err}
}

// RunSummary describes a finished playlist download.
type RunSummary struct {
	RunID     string
	Playlist  Playlist
	OutputDir string
	Results   []TrackResult
	Attempted int
	Succeeded int
	Skipped   int
	Failed    int
}

// Tally recomputes the counters from Results.
func (s *RunSummary) Tally() {
	s.Attempted, s.Succeeded, s.Skipped, s.Failed = len(s.Results), 0, 0, 0
	for _, r := range s.Results {
		switch r.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
}
