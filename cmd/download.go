package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download reads a playlist and downloads every track into <output>/<playlist title>.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	r.applyDownloadFlags(cmd)

	if cmd.Bool("tui") {
		if err := r.useFileLogger(); err != nil {
			return err
		}
	}

	playlistID, err := r.playlistID(cmd)
	if err != nil {
		return err
	}
	if err := r.config.ValidateDownload(); err != nil {
		return err
	}

	reader, closeCache, err := r.playlistReader()
	if err != nil {
		return err
	}
	defer closeCache()

	engine := tasks.NewPlaylistEngine(reader, r.audioFetcher(), tasks.EngineOpts{
		OutputBase:  r.config.Download.OutputDir,
		Concurrency: r.config.Download.Concurrency,
		Logger:      r.logger,
	})

	if cmd.Bool("tui") {
		return r.runTUI(ctx, engine, playlistID)
	}

	r.logger.Info("starting download", "playlist", playlistID, "output", r.config.Download.OutputDir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Authenticate, tasks.FetchTracks, tasks.FetchTitle:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.TrackDone:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	summary, err := engine.Run(ctx, playlistID, progressCh)
	close(progressCh)
	<-done

	if summary != nil {
		r.writeSummary(summary, err)
	}
	return err
}

func (r *Runner) applyDownloadFlags(cmd *cli.Command) {
	if cmd.IsSet("output") {
		r.config.Download.OutputDir = cmd.String("output")
	}
	if cmd.IsSet("format") {
		r.config.Download.AudioFormat = cmd.String("format")
	}
	if cmd.IsSet("engine") {
		r.config.Download.Engine = cmd.String("engine")
	}
	if cmd.IsSet("concurrency") {
		r.config.Download.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.Bool("no-cache") {
		r.config.Cache.Enabled = false
	}
	if cmd.Bool("strict-tempo") {
		r.config.Spotify.StrictTempo = true
	}
}

func (r *Runner) writeSummary(summary *models.RunSummary, err error) {
	title := "Download Complete!"
	if err != nil {
		title = fmt.Sprintf("Download Interrupted (%v)", err)
	}

	r.writePlain("\n")
	r.writePlainHeader(title)
	r.writePlain("Playlist: %s (%d tracks)\n", summary.Playlist.Title, len(summary.Playlist.Tracks))
	r.writePlain("Directory: %s\n", summary.OutputDir)
	r.writePlain("Attempted: %d  Succeeded: %d  Skipped: %d  Failed: %d\n",
		summary.Attempted, summary.Succeeded, summary.Skipped, summary.Failed)

	if summary.Skipped+summary.Failed == 0 {
		return
	}

	r.writePlain("\nNot downloaded:\n")
	for _, res := range summary.Results {
		switch res.Status {
		case models.StatusSkipped:
			r.writePlain("  - %s - %s (no match)\n", res.Track.Name, res.Track.Artist)
		case models.StatusFailed:
			r.writePlain("  - %s - %s (%v)\n", res.Track.Name, res.Track.Artist, res.Err)
		}
	}
}
