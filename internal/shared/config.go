package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv]. The SPOTIPY_ names are checked first.
var (
	clientIDEnv     = []string{"SPOTIPY_CLIENT_ID", "SPOTIFY_CLIENT_ID"}
	clientSecretEnv = []string{"SPOTIPY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET"}
	outputDirEnv    = []string{"OUTPUT_DIR", "TEMPODL_OUTPUT_DIR"}
)

// Config represents the application configuration loaded from a TOML or YAML file and the environment.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials" yaml:"credentials"`
	Spotify     SpotifyAPIConfig  `toml:"spotify" yaml:"spotify"`
	Download    DownloadConfig    `toml:"download" yaml:"download"`
	Cache       CacheConfig       `toml:"cache" yaml:"cache"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify" yaml:"spotify"`
}

// SpotifyConfig contains Spotify client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" yaml:"client_id"`
	ClientSecret string `toml:"client_secret" yaml:"client_secret"`
}

// SpotifyAPIConfig controls how the Spotify Web API is reached.
type SpotifyAPIConfig struct {
	TokenURL          string  `toml:"token_url" yaml:"token_url"`
	APIURL            string  `toml:"api_url" yaml:"api_url"`
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	StrictTempo       bool    `toml:"strict_tempo" yaml:"strict_tempo"`
}

// DownloadConfig contains settings for locating and saving audio.
type DownloadConfig struct {
	OutputDir     string `toml:"output_dir" yaml:"output_dir"`
	AudioFormat   string `toml:"audio_format" yaml:"audio_format"`
	Engine        string `toml:"engine" yaml:"engine"`
	SearchResults int    `toml:"search_results" yaml:"search_results"`
	Concurrency   int    `toml:"concurrency" yaml:"concurrency"`
	TagMP3        bool   `toml:"tag_mp3" yaml:"tag_mp3"`
	YtdlpPath     string `toml:"ytdlp_path" yaml:"ytdlp_path"`
}

// CacheConfig contains tempo cache database settings.
type CacheConfig struct {
	Enabled      bool   `toml:"enabled" yaml:"enabled"`
	Path         string `toml:"path" yaml:"path"`
	MaxOpenConns int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
}

// LoadConfig reads a configuration file on top of [DefaultConfig].
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from each existing file into the process environment.
//
// Missing files are ignored and variables already set are left untouched.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays credentials and the output directory from the environment.
//
// getenv is usually [os.Getenv].
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := firstEnv(getenv, clientIDEnv); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := firstEnv(getenv, clientSecretEnv); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := firstEnv(getenv, outputDirEnv); v != "" {
		c.Download.OutputDir = v
	}
}

// ValidateCredentials reports whether Spotify client credentials are present.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, clientIDEnv[0])
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, clientSecretEnv[0])
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// ValidateDownload checks the settings needed to write audio files.
func (c *Config) ValidateDownload() error {
	if c.Download.OutputDir == "" {
		return fmt.Errorf("%w: output directory not set (%s or --output)", ErrMissingConfig, outputDirEnv[0])
	}
	switch c.Download.Engine {
	case EngineYtdlp, EngineNative:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Download.Engine)
	}
	if c.Download.Engine == EngineYtdlp && c.Download.AudioFormat != "" && !slices.Contains(AudioFormats, c.Download.AudioFormat) {
		return fmt.Errorf("%w: unsupported audio format %q (want one of %s)",
			ErrInvalidConfig, c.Download.AudioFormat, strings.Join(AudioFormats, ", "))
	}
	if c.Download.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.Download.SearchResults < 1 {
		return fmt.Errorf("%w: search_results must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Download engines
const (
	EngineYtdlp  = "ytdlp"
	EngineNative = "native"
)

// AudioFormats are the --audio-format values yt-dlp accepts for extracted audio.
var AudioFormats = []string{"best", "aac", "alac", "flac", "m4a", "mp3", "opus", "vorbis", "wav"}

func firstEnv(getenv func(string) string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
