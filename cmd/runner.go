package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempodl/internal/repositories"
	"github.com/desertthunder/tempodl/internal/services"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/urfave/cli/v3"
)

const playlistPrompt = "Enter the spotify playlist link: "

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
	getenv     func(string) string
	reader     services.PlaylistReader
	fetcher    services.AudioFetcher
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Reader and Fetcher replace the Spotify reader and YouTube fetcher built from configuration.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
	Getenv     func(string) string
	Reader     services.PlaylistReader
	Fetcher    services.AudioFetcher
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Getenv == nil {
		opts.Getenv = func(string) string { return "" }
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
		getenv:     opts.Getenv,
		reader:     opts.Reader,
		fetcher:    opts.Fetcher,
	}
}

// SetLogger replaces the logger used by commands and the services they build.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		downloadCommand, tracksCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves configuration once per invocation: file (when given or present), then environment.
//
// A config injected through [RunnerOpts] is kept unless --config is passed explicitly.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.WarnLevel)
	}

	path := cmd.String("config")
	if r.config == nil || cmd.IsSet("config") {
		r.configPath = path

		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.logger.Debug("loaded config", "path", path)
			r.config = config
		} else {
			if cmd.IsSet("config") {
				r.logger.Warn("config file not found, using defaults", "path", path)
			}
			r.config = shared.DefaultConfig()
		}
	}

	r.config.ApplyEnv(r.getenv)
	return ctx, nil
}

// playlistID reads the playlist link from the first argument or, when absent, from the prompt.
func (r *Runner) playlistID(cmd *cli.Command) (string, error) {
	link := cmd.StringArg("url")
	if link == "" {
		r.writePlain(playlistPrompt)
		line, err := bufio.NewReader(r.input).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: reading playlist link: %v", shared.ErrMissingArgument, err)
		}
		link = strings.TrimSpace(line)
	}
	if link == "" {
		return "", fmt.Errorf("%w: playlist link", shared.ErrMissingArgument)
	}
	return services.PlaylistIDFromURL(link)
}

// playlistReader returns the injected reader or builds the Spotify reader, with the tempo cache when enabled.
// The returned func releases the cache.
func (r *Runner) playlistReader() (services.PlaylistReader, func(), error) {
	if r.reader != nil {
		return r.reader, func() {}, nil
	}
	if err := r.config.ValidateCredentials(); err != nil {
		return nil, nil, err
	}

	opts := []services.SpotifyOption{services.WithSpotifyLogger(r.logger)}
	cleanup := func() {}

	if r.config.Cache.Enabled {
		db, err := shared.OpenCache(r.config.Cache)
		if err != nil {
			r.logger.Warn("tempo cache unavailable, continuing without it", "path", r.config.Cache.Path, "error", err)
		} else {
			cache := repositories.NewTempoCacheAdapter(repositories.NewTempoRepository(db))
			opts = append(opts, services.WithTempoCache(cache))
			cleanup = func() { db.Close() }
		}
	}

	reader, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.config.Spotify, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return reader, cleanup, nil
}

// audioFetcher returns the injected fetcher or builds one for the configured engine.
func (r *Runner) audioFetcher() services.AudioFetcher {
	if r.fetcher != nil {
		return r.fetcher
	}

	ytdlp := services.NewYtdlpClient(r.config.Download, r.logger)
	var downloader services.AudioDownloader = ytdlp
	if r.config.Download.Engine == shared.EngineNative {
		downloader = services.NewNativeDownloader(nil)
	}

	return services.NewFetcher(services.FetcherOpts{
		Searcher:      ytdlp,
		Downloader:    downloader,
		SearchResults: r.config.Download.SearchResults,
		TagMP3:        r.config.Download.TagMP3,
		Logger:        r.logger,
	})
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
