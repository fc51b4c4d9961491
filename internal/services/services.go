package services

import (
	"context"

	"github.com/desertthunder/tempodl/internal/models"
)

// PlaylistReader reads a playlist from the streaming service.
type PlaylistReader interface {
	// Authenticate obtains credentials for later calls. Failure is fatal for a run.
	Authenticate(ctx context.Context) error

	// FetchTracks returns every track of the playlist in source order, following all pages.
	FetchTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// FetchTitle returns the playlist display name.
	FetchTitle(ctx context.Context, playlistID string) (string, error)
}

// VideoSearcher runs a free-text search on the video platform.
type VideoSearcher interface {
	// Search returns up to limit results in relevance order. No results is not an error.
	Search(ctx context.Context, query string, limit int) ([]models.Video, error)
}

// AudioDownloader saves the best audio-only stream of a video.
type AudioDownloader interface {
	// Download writes dir/stem.<ext> and returns the written path. Nothing is left behind on failure.
	Download(ctx context.Context, video models.Video, dir, stem string) (string, error)
}

// AudioFetcher finds and downloads one track. It reports every outcome as a value and never panics.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, track models.Track, outputDir string) models.TrackResult
}

// TempoCache remembers tempo values by track ID between runs.
type TempoCache interface {
	LookupTempo(trackID string) (tempo float64, ok bool, err error)
	StoreTempo(trackID string, tempo float64) error
}
