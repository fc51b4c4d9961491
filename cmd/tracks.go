package main

import (
	"context"

	"github.com/desertthunder/tempodl/internal/formatter"
	"github.com/desertthunder/tempodl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Tracks prints the playlist's tracks with tempo, or writes them to --output.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("no-cache") {
		r.config.Cache.Enabled = false
	}

	playlistID, err := r.playlistID(cmd)
	if err != nil {
		return err
	}

	reader, closeCache, err := r.playlistReader()
	if err != nil {
		return err
	}
	defer closeCache()

	engine := tasks.NewPlaylistEngine(reader, nil, tasks.EngineOpts{Logger: r.logger})
	playlist, err := engine.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}
	r.logger.Debug("fetched playlist", "title", playlist.Title, "tracks", len(playlist.Tracks))

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(playlist, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("listing written", "path", written)
		return nil
	}

	data, err := formatter.Export(playlist, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return err
	}
	return nil
}
