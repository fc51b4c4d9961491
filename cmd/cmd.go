// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:           "tempodl",
		Usage:          "Download a Spotify playlist from YouTube with the tempo in every file name",
		Version:        "0.1.0",
		DefaultCommand: "download",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (TOML or YAML)",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Log debug output",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log warnings and errors",
			},
		},
		Before:   r.loadConfig,
		Commands: r.register(),
	}
}

// downloadCommand runs the full playlist download
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Download every track of a playlist as audio",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base directory; files go to <output>/<playlist title>",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Audio format for the ytdlp engine: best, aac, alac, flac, m4a, mp3, opus, vorbis or wav",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "Download engine: ytdlp or native",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Tracks downloaded at once",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Skip the tempo cache",
			},
			&cli.BoolFlag{
				Name:  "strict-tempo",
				Usage: "Abort when a track's tempo cannot be fetched",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress view",
			},
		},
		Action: r.Download,
	}
}

// tracksCommand lists a playlist with tempo without downloading
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"ls"},
		Usage:   "List the tracks of a playlist with their tempo",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, csv, markdown or json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Skip the tempo cache",
			},
		},
		Action: r.Tracks,
	}
}

// setupCommand handles setup operations for configuration, cache and yt-dlp.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file to the --config path",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "cache",
				Usage: "Create or migrate the tempo cache database",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "prune",
						Usage: "Remove entries not refreshed within this duration (e.g. 720h)",
					},
				},
				Action: r.SetupCache,
			},
			{
				Name:   "ytdlp",
				Usage:  "Install the yt-dlp executable used for search and download",
				Action: r.SetupYtdlp,
			},
		},
	}
}
