package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/tempodl/internal/repositories"
	"github.com/desertthunder/tempodl/internal/services"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			r.logger.Info("config file already exists, leaving it untouched", "path", path)
			r.writePlain("Config already exists: %s (use --force to overwrite)\n", path)
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and client_secret (or SPOTIPY_CLIENT_ID / SPOTIPY_CLIENT_SECRET)\n")
	r.writePlain("2. Set download.output_dir (or OUTPUT_DIR)\n")
	r.writePlain("3. Run 'tempodl download <playlist url>'\n")
	return nil
}

// SetupCache initializes the tempo cache database, runs migrations, and optionally prunes stale entries.
func (r *Runner) SetupCache(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing tempo cache", "path", r.config.Cache.Path)

	db, err := shared.OpenCache(r.config.Cache)
	if err != nil {
		return fmt.Errorf("failed to open tempo cache: %w", err)
	}
	defer db.Close()

	repo := repositories.NewTempoRepository(db)

	if age := cmd.Duration("prune"); age > 0 {
		removed, err := repo.Prune(time.Now().Add(-age))
		if err != nil {
			return err
		}
		r.logger.Info("pruned tempo cache", "removed", removed, "older_than", age)
	}

	entries, err := repo.List(nil)
	if err != nil {
		return err
	}

	r.writePlain("✓ Tempo cache ready: %s (%d entries)\n", r.config.Cache.Path, len(entries))
	return nil
}

// SetupYtdlp installs yt-dlp (or verifies download.ytdlp_path) and prints the executable path.
func (r *Runner) SetupYtdlp(ctx context.Context, cmd *cli.Command) error {
	client := services.NewYtdlpClient(r.config.Download, r.logger)

	path, err := client.Install(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ yt-dlp available at %s\n", path)
	return nil
}
