package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

var (
	_ VideoSearcher   = (*YtdlpClient)(nil)
	_ AudioDownloader = (*YtdlpClient)(nil)
)

// YtdlpClient searches YouTube and downloads audio by driving the yt-dlp executable via [ytdlp.Command].
//
// When no executable path is configured, yt-dlp is installed into the go-ytdlp cache on first use.
type YtdlpClient struct {
	executable  string
	audioFormat string
	logger      *log.Logger

	installOnce sync.Once
	installed   string
	installErr  error
}

// NewYtdlpClient creates a YtdlpClient from download settings.
func NewYtdlpClient(cfg shared.DownloadConfig, logger *log.Logger) *YtdlpClient {
	format := cfg.AudioFormat
	if format == "" {
		format = "mp3"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &YtdlpClient{executable: cfg.YtdlpPath, audioFormat: format, logger: logger}
}

// Install makes sure a yt-dlp executable is available and returns its path.
func (c *YtdlpClient) Install(ctx context.Context) (string, error) {
	if c.executable != "" {
		return c.executable, nil
	}

	c.installOnce.Do(func() {
		install, err := ytdlp.Install(ctx, nil)
		if err != nil {
			c.installErr = fmt.Errorf("%w: installing yt-dlp: %v", shared.ErrServiceUnavailable, err)
			return
		}
		c.installed = install.Executable
		c.logger.Debug("yt-dlp ready", "path", install.Executable)
	})
	return c.installed, c.installErr
}

func (c *YtdlpClient) command(ctx context.Context) (*ytdlp.Command, error) {
	executable, err := c.Install(ctx)
	if err != nil {
		return nil, err
	}
	return ytdlp.New().SetExecutable(executable), nil
}

// Search runs a "ytsearchN:" query and returns the hits in relevance order.
//
// Each flat entry is printed as its own JSON line, which is what [ytdlp.Result.GetExtractedInfo] parses.
func (c *YtdlpClient) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	if limit < 1 {
		limit = 1
	}

	cmd, err := c.command(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cmd.FlatPlaylist().DumpJSON().Run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", shared.ErrServiceUnavailable, err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable search output: %v", shared.ErrServiceUnavailable, err)
	}

	videos := videosFromInfo(info)
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

// Download selects the best audio-only format, extracts it to the configured audio format, and
// writes dir/stem.<ext>, where yt-dlp decides ext. Existing files with the same name are overwritten.
//
// The final path is the one yt-dlp prints after moving the file into place. On any failure every
// dir/stem.* file is removed, including ".part" files and pre-extraction intermediates.
func (c *YtdlpClient) Download(ctx context.Context, video models.Video, dir, stem string) (string, error) {
	cmd, err := c.command(ctx)
	if err != nil {
		return "", err
	}

	logger := shared.WithLogger(c.logger, "video", video.ID)
	cmd.
		Format("bestaudio").
		ExtractAudio().
		AudioFormat(c.audioFormat).
		NoPlaylist().
		ForceOverwrites().
		Print(afterMovePath).
		Output(filepath.Join(dir, escapeOutputTemplate(stem)+".%(ext)s")).
		ProgressFunc(time.Second, func(update ytdlp.ProgressUpdate) {
			logger.Debug("download progress", "downloaded", update.DownloadedBytes, "total", update.TotalBytes)
		})

	result, err := cmd.Run(ctx, videoURL(video))
	if err != nil {
		removeStemFiles(dir, stem, logger)
		return "", fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}

	path := lastLine(result.Stdout)
	if path == "" {
		removeStemFiles(dir, stem, logger)
		return "", fmt.Errorf("%w: yt-dlp reported no output file", shared.ErrDownloadFailed)
	}
	if _, err := os.Stat(path); err != nil {
		removeStemFiles(dir, stem, logger)
		return "", fmt.Errorf("%w: reported output %s: %v", shared.ErrDownloadFailed, path, err)
	}
	return path, nil
}

// afterMovePath makes yt-dlp print the final file path once post-processing has moved it into place.
const afterMovePath = "after_move:filepath"

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// removeStemFiles deletes every dir/stem.* file.
func removeStemFiles(dir, stem string, logger *log.Logger) {
	matches, err := filepath.Glob(filepath.Join(escapeGlob(dir), escapeGlob(stem)+".*"))
	if err != nil {
		logger.Warn("failed to list partial files", "dir", dir, "error", err)
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove partial file", "path", m, "error", err)
		}
	}
}

var globEscaper = strings.NewReplacer("*", "[*]", "?", "[?]", "[", "[[]")

// escapeGlob makes s match itself literally in [filepath.Glob].
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

// videosFromInfo flattens yt-dlp search output into [models.Video] values.
func videosFromInfo(info []*ytdlp.ExtractedInfo) []models.Video {
	var videos []models.Video
	for _, i := range info {
		if i == nil {
			continue
		}
		if string(i.Type) == "playlist" || len(i.Entries) > 0 {
			videos = append(videos, videosFromInfo(i.Entries)...)
			continue
		}
		if i.ID == "" {
			continue
		}

		v := models.Video{ID: i.ID, URL: youtubeWatchURL + i.ID}
		if i.Title != nil {
			v.Title = *i.Title
		}
		if i.WebpageURL != nil && *i.WebpageURL != "" {
			v.URL = *i.WebpageURL
		} else if i.URL != nil && strings.HasPrefix(*i.URL, "http") {
			v.URL = *i.URL
		}
		videos = append(videos, v)
	}
	return videos
}

func videoURL(v models.Video) string {
	if v.URL != "" {
		return v.URL
	}
	return youtubeWatchURL + v.ID
}

// escapeOutputTemplate protects literal percent signs from yt-dlp's template expansion.
func escapeOutputTemplate(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
