package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
	tu "github.com/desertthunder/tempodl/internal/testing"
	"github.com/kkdai/youtube/v2"
)

func TestBestAudioFormat(t *testing.T) {
	t.Run("Highest Audio Bitrate", func(t *testing.T) {
		formats := youtube.FormatList{
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Bitrate: 4000000},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000},
			{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, AverageBitrate: 50000},
		}

		best := BestAudioFormat(formats)
		if best == nil {
			t.Fatal("expected a format")
		}
		if best.ItagNo != 251 {
			t.Errorf("expected itag 251, got %d", best.ItagNo)
		}
	})

	t.Run("Average Bitrate Fallback", func(t *testing.T) {
		formats := youtube.FormatList{
			{ItagNo: 1, MimeType: "audio/mp4", AverageBitrate: 64000},
			{ItagNo: 2, MimeType: "audio/mp4", AverageBitrate: 128000},
		}
		if best := BestAudioFormat(formats); best == nil || best.ItagNo != 2 {
			t.Errorf("expected itag 2, got %+v", best)
		}
	})

	t.Run("No Audio", func(t *testing.T) {
		formats := youtube.FormatList{{ItagNo: 137, MimeType: "video/mp4", Bitrate: 4000000}}
		if best := BestAudioFormat(formats); best != nil {
			t.Errorf("expected nil, got %+v", best)
		}
	})
}

func TestExtensionForMime(t *testing.T) {
	tests := []struct{ mime, want string }{
		{mime: `audio/mp4; codecs="mp4a.40.2"`, want: "m4a"},
		{mime: `audio/webm; codecs="opus"`, want: "webm"},
		{mime: "audio/mpeg", want: "mp3"},
		{mime: "audio/ogg", want: "audio"},
		{mime: "", want: "audio"},
	}
	for _, tt := range tests {
		if got := ExtensionForMime(tt.mime); got != tt.want {
			t.Errorf("ExtensionForMime(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "120.0 BPM — Red - Y.m4a")
		if err := writeAtomic(context.Background(), path, strings.NewReader("audio")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != "audio" {
			t.Errorf("expected file contents to be copied, got %q", data)
		}
		if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
			t.Error("expected temporary file to be gone")
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "out.m4a")
		if err := writeAtomic(ctx, path, strings.NewReader("audio")); err == nil {
			t.Fatal("expected error for cancelled context")
		}
		for _, p := range []string{path, path + ".part"} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("expected %s to be absent", p)
			}
		}
	})
}

func TestNativeDownloader(t *testing.T) {
	t.Run("Resolve Error", func(t *testing.T) {
		dir := t.TempDir()
		client := &youtube.Client{HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("offline"))}}
		d := NewNativeDownloader(client)

		_, err := d.Download(context.Background(), models.Video{ID: "dQw4w9WgXcQ"}, dir, "120.0 BPM — Blue - X")
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Fatalf("expected ErrDownloadFailed, got %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty directory, got %d entries", len(entries))
		}
	})
}
