package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/kkdai/youtube/v2"
)

var _ AudioDownloader = (*NativeDownloader)(nil)

// NativeDownloader streams the highest-bitrate audio-only format with [youtube.Client], without an
// external executable. The container is saved as-is (m4a or webm); nothing is transcoded.
type NativeDownloader struct {
	client *youtube.Client
}

// NewNativeDownloader creates a NativeDownloader. A nil client uses a zero [youtube.Client].
func NewNativeDownloader(client *youtube.Client) *NativeDownloader {
	if client == nil {
		client = &youtube.Client{}
	}
	return &NativeDownloader{client: client}
}

// Download resolves the video, picks its best audio-only stream and writes dir/stem.<ext>.
//
// The stream is written to a ".part" file first and renamed once complete.
func (d *NativeDownloader) Download(ctx context.Context, video models.Video, dir, stem string) (string, error) {
	v, err := d.client.GetVideoContext(ctx, videoURL(video))
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", shared.ErrDownloadFailed, video.ID, err)
	}

	format := BestAudioFormat(v.Formats)
	if format == nil {
		return "", fmt.Errorf("%w: %s", shared.ErrNoAudioStream, video.ID)
	}

	stream, _, err := d.client.GetStreamContext(ctx, v, format)
	if err != nil {
		return "", fmt.Errorf("%w: opening stream: %v", shared.ErrDownloadFailed, err)
	}
	defer stream.Close()

	path := filepath.Join(dir, stem+"."+ExtensionForMime(format.MimeType))
	if err := writeAtomic(ctx, path, stream); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}
	return path, nil
}

// BestAudioFormat returns the audio-only format with the highest bitrate, or nil when there is none.
func BestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || formatBitrate(f) > formatBitrate(best) {
			best = f
		}
	}
	return best
}

func formatBitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// ExtensionForMime maps an audio MIME type such as `audio/mp4; codecs="mp4a.40.2"` to a file extension.
func ExtensionForMime(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	switch strings.TrimSpace(base) {
	case "audio/mp4":
		return "m4a"
	case "audio/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	default:
		return "audio"
	}
}

// writeAtomic copies r into path via a temporary sibling file, honoring ctx cancellation.
func writeAtomic(ctx context.Context, path string, r io.Reader) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	_, err = io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
