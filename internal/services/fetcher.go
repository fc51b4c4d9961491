package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
)

var _ AudioFetcher = (*Fetcher)(nil)

// Fetcher matches one track on the video platform and downloads its audio.
//
// The first search hit is taken as the match without further ranking.
type Fetcher struct {
	searcher      VideoSearcher
	downloader    AudioDownloader
	searchResults int
	tagMP3        bool
	logger        *log.Logger
}

// FetcherOpts configures a [Fetcher].
type FetcherOpts struct {
	Searcher      VideoSearcher
	Downloader    AudioDownloader
	SearchResults int
	TagMP3        bool
	Logger        *log.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts FetcherOpts) *Fetcher {
	if opts.SearchResults < 1 {
		opts.SearchResults = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Fetcher{
		searcher:      opts.Searcher,
		downloader:    opts.Downloader,
		searchResults: opts.SearchResults,
		tagMP3:        opts.TagMP3,
		logger:        opts.Logger,
	}
}

// SearchQuery is the free-text query used to find a track: "{song} {artist}".
func SearchQuery(track models.Track) string {
	return strings.TrimSpace(track.Name + " " + track.Artist)
}

// FetchAudio searches for the track and downloads the first hit into outputDir.
//
// No hits yields [models.StatusSkipped]; search or download errors yield [models.StatusFailed].
func (f *Fetcher) FetchAudio(ctx context.Context, track models.Track, outputDir string) models.TrackResult {
	query := SearchQuery(track)
	logger := shared.WithLogger(f.logger, "track", track.Name, "artist", track.Artist)

	videos, err := f.searcher.Search(ctx, query, f.searchResults)
	if err != nil {
		return models.Failed(track, nil, fmt.Errorf("searching %q: %w", query, err))
	}
	if len(videos) == 0 {
		return models.Skipped(track, fmt.Errorf("%w for %q", shared.ErrNoSearchResults, query))
	}

	video := videos[0]
	logger.Debug("matched video", "video", video.ID, "title", video.Title)

	stem := shared.TrackStem(track.Name, track.Artist, track.BPM, track.TempoKnown)
	path, err := f.downloader.Download(ctx, video, outputDir, stem)
	if err != nil {
		return models.Failed(track, &video, err)
	}

	if f.tagMP3 && strings.EqualFold(filepath.Ext(path), ".mp3") {
		if err := TagTempo(path, track); err != nil {
			logger.Warn("failed to write tags", "path", path, "error", err)
		}
	}

	return models.Succeeded(track, &video, path)
}
