package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/services"
	"github.com/desertthunder/tempodl/internal/shared"
	"golang.org/x/sync/errgroup"
)

// DownloadEngine defines playlist download operations.
type DownloadEngine interface {
	// Playlist authenticates and reads the full track listing and title of a playlist.
	Playlist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// Run reads a playlist and downloads every track into a directory named after it.
	Run(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*models.RunSummary, error)

	// Download fetches every track of a playlist that was already read with Playlist.
	Download(ctx context.Context, playlist *models.Playlist, progress chan<- ProgressUpdate) (*models.RunSummary, error)

	// OutputDir returns the directory a playlist with the given title is written to.
	OutputDir(title string) string
}

// EngineOpts configures a [PlaylistEngine].
type EngineOpts struct {
	OutputBase  string      // Directory that receives one sub-directory per playlist
	Concurrency int         // Tracks fetched at once (default: 1)
	Logger      *log.Logger // Defaults to stderr
}

// PlaylistEngine implements [DownloadEngine] on top of a playlist reader and a per-track fetcher.
type PlaylistEngine struct {
	reader      services.PlaylistReader
	fetcher     services.AudioFetcher
	outputBase  string
	concurrency int
	logger      *log.Logger
}

var _ DownloadEngine = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a new PlaylistEngine with the provided services.
func NewPlaylistEngine(reader services.PlaylistReader, fetcher services.AudioFetcher, opts EngineOpts) *PlaylistEngine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &PlaylistEngine{
		reader:      reader,
		fetcher:     fetcher,
		outputBase:  opts.OutputBase,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Playlist reads the playlist without downloading anything.
func (e *PlaylistEngine) Playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	return e.fetchPlaylist(ctx, playlistID, nil)
}

func (e *PlaylistEngine) fetchPlaylist(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.reader == nil {
		return nil, fmt.Errorf("%w: playlist reader not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, authenticateUpdate())
	if err := e.reader.Authenticate(ctx); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTracksUpdate(playlistID))
	tracks, err := e.reader.FetchTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTitleUpdate(len(tracks)))
	title, err := e.reader.FetchTitle(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.Playlist{ID: playlistID, Title: title, Tracks: tracks}, nil
}

// OutputDir returns the directory a playlist with the given title is written to.
func (e *PlaylistEngine) OutputDir(title string) string {
	return filepath.Join(e.outputBase, shared.SanitizeName(title))
}

// Run authenticates, reads the playlist, creates the output directory and fetches every track.
//
// Listing errors abort the run. Per-track outcomes never do: they are collected in source order in the
// returned summary. When ctx is cancelled mid-run, the summary of the tracks processed so far is
// returned together with the context error.
func (e *PlaylistEngine) Run(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*models.RunSummary, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	playlist, err := e.fetchPlaylist(ctx, playlistID, progress)
	if err != nil {
		return nil, err
	}
	return e.Download(ctx, playlist, progress)
}

// Download creates the output directory for playlist and fetches every track, like Run without the
// listing step.
func (e *PlaylistEngine) Download(ctx context.Context, playlist *models.Playlist, progress chan<- ProgressUpdate) (*models.RunSummary, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	runID := shared.GenerateID()
	logger := shared.WithLogger(e.logger, "run", runID)

	outputDir := e.OutputDir(playlist.Title)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrOutputDir, err)
	}
	logger.Info("downloading playlist", "title", playlist.Title, "tracks", len(playlist.Tracks), "dir", outputDir)

	results, runErr := e.fetchAll(ctx, playlist.Tracks, outputDir, progress, logger)

	summary := &models.RunSummary{
		RunID:     runID,
		Playlist:  *playlist,
		OutputDir: outputDir,
		Results:   results,
	}
	summary.Tally()

	if runErr != nil {
		logger.Warn("playlist download interrupted", "attempted", summary.Attempted, "total", len(playlist.Tracks))
		return summary, runErr
	}

	logger.Info("Playlist download finished.",
		"succeeded", summary.Succeeded, "skipped", summary.Skipped, "failed", summary.Failed)
	e.sendProgress(progress, finishedUpdate(summary))
	return summary, nil
}

func (e *PlaylistEngine) ready() error {
	if e.fetcher == nil {
		return fmt.Errorf("%w: audio fetcher not initialized", shared.ErrServiceUnavailable)
	}
	if e.outputBase == "" {
		return fmt.Errorf("%w: no output directory configured", shared.ErrOutputDir)
	}
	return nil
}

// fetchAll runs the fetcher over every track, sequentially or with a bounded pool. Results keep
// source order; tracks not reached before cancellation are left out.
func (e *PlaylistEngine) fetchAll(
	ctx context.Context,
	tracks []models.Track,
	outputDir string,
	progress chan<- ProgressUpdate,
	logger *log.Logger,
) ([]models.TrackResult, error) {
	total := len(tracks)
	results := make([]models.TrackResult, total)
	done := make([]bool, total)

	var err error
	if e.concurrency == 1 {
		for i, track := range tracks {
			if err = ctx.Err(); err != nil {
				break
			}
			results[i] = e.fetchOne(ctx, i+1, total, track, outputDir, progress, logger)
			done[i] = true
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for i, track := range tracks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = e.fetchOne(gctx, i+1, total, track, outputDir, progress, logger)
				done[i] = true
				return nil
			})
		}
		err = g.Wait()
	}

	collected := make([]models.TrackResult, 0, total)
	for i, r := range results {
		if done[i] {
			collected = append(collected, r)
		}
	}
	return collected, err
}

// fetchOne processes a single track. A panicking fetcher is reported as a failed track.
func (e *PlaylistEngine) fetchOne(
	ctx context.Context,
	step, total int,
	track models.Track,
	outputDir string,
	progress chan<- ProgressUpdate,
	logger *log.Logger,
) (result models.TrackResult) {
	logger = shared.WithLogger(logger, "track", fmt.Sprintf("%d/%d", step, total))

	defer func() {
		if r := recover(); r != nil {
			result = models.Failed(track, nil, fmt.Errorf("%w: panic: %v", shared.ErrDownloadFailed, r))
		}

		switch result.Status {
		case models.StatusSucceeded:
			logger.Debug("saved", "path", result.Path)
		case models.StatusSkipped:
			logger.Info("no match, skipping", "song", track.Name, "artist", track.Artist)
		default:
			logger.Error("download failed", "song", track.Name, "artist", track.Artist, "error", result.Err)
		}
		e.sendProgress(progress, trackDoneUpdate(step, total, result))
	}()

	logger.Infof("Downloading: %s - %s", track.Name, track.Artist)
	e.sendProgress(progress, downloadUpdate(step, total, track))

	return e.fetcher.FetchAudio(ctx, track, outputDir)
}
