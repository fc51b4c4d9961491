package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
)

type fakeSearcher struct {
	results map[string][]models.Video
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeDownloader struct {
	ext   string
	err   error
	stems []string
}

func (f *fakeDownloader) Download(ctx context.Context, video models.Video, dir, stem string) (string, error) {
	f.stems = append(f.stems, stem)
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, stem+"."+f.ext)
	// At least an ID3v2 header (10 bytes) long so tagging can parse it.
	if err := os.WriteFile(path, []byte("audio stream for "+video.ID), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func TestSearchQuery(t *testing.T) {
	if got := SearchQuery(models.Track{Name: "Blue", Artist: "X"}); got != "Blue X" {
		t.Errorf("expected %q, got %q", "Blue X", got)
	}
	if got := SearchQuery(models.Track{Name: "Solo"}); got != "Solo" {
		t.Errorf("expected %q, got %q", "Solo", got)
	}
}

func TestFetcher(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)
	blue := models.Track{ID: "t1", Name: "Blue", Artist: "X", BPM: 128.3, TempoKnown: true}

	t.Run("Succeeded", func(t *testing.T) {
		dir := t.TempDir()
		searcher := &fakeSearcher{results: map[string][]models.Video{
			"Blue X": {{ID: "abc", Title: "Blue"}, {ID: "def", Title: "Blue (Live)"}},
		}}
		downloader := &fakeDownloader{ext: "m4a"}
		fetcher := NewFetcher(FetcherOpts{Searcher: searcher, Downloader: downloader, Logger: logger})

		result := fetcher.FetchAudio(ctx, blue, dir)
		if result.Status != models.StatusSucceeded {
			t.Fatalf("expected succeeded, got %s (%v)", result.Status, result.Err)
		}

		want := filepath.Join(dir, "128.3 BPM — Blue - X.m4a")
		if result.Path != want {
			t.Errorf("expected path %s, got %s", want, result.Path)
		}
		if result.Video == nil || result.Video.ID != "abc" {
			t.Errorf("expected first hit to be used, got %+v", result.Video)
		}
	})

	t.Run("Unknown Tempo Name", func(t *testing.T) {
		searcher := &fakeSearcher{results: map[string][]models.Video{"Green W": {{ID: "g"}}}}
		downloader := &fakeDownloader{ext: "m4a"}
		fetcher := NewFetcher(FetcherOpts{Searcher: searcher, Downloader: downloader, Logger: logger})

		result := fetcher.FetchAudio(ctx, models.Track{Name: "Green", Artist: "W"}, t.TempDir())
		if result.Status != models.StatusSucceeded {
			t.Fatalf("expected succeeded, got %s", result.Status)
		}
		if downloader.stems[0] != "unknown BPM — Green - W" {
			t.Errorf("unexpected stem %q", downloader.stems[0])
		}
	})

	t.Run("Tags MP3", func(t *testing.T) {
		searcher := &fakeSearcher{results: map[string][]models.Video{"Blue X": {{ID: "abc"}}}}
		fetcher := NewFetcher(FetcherOpts{
			Searcher:   searcher,
			Downloader: &fakeDownloader{ext: "mp3"},
			TagMP3:     true,
			Logger:     logger,
		})

		result := fetcher.FetchAudio(ctx, blue, t.TempDir())
		if result.Status != models.StatusSucceeded {
			t.Fatalf("expected succeeded, got %s", result.Status)
		}

		tag, err := id3v2.Open(result.Path, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to open tag: %v", err)
		}
		defer tag.Close()
		if got := tag.GetTextFrame(bpmFrameID).Text; got != "128" {
			t.Errorf("expected TBPM 128, got %q", got)
		}
		if tag.Title() != "Blue" || tag.Artist() != "X" {
			t.Errorf("expected title and artist frames, got %q / %q", tag.Title(), tag.Artist())
		}
	})

	t.Run("Skipped", func(t *testing.T) {
		downloader := &fakeDownloader{ext: "m4a"}
		fetcher := NewFetcher(FetcherOpts{Searcher: &fakeSearcher{}, Downloader: downloader, Logger: logger})

		result := fetcher.FetchAudio(ctx, blue, t.TempDir())
		if result.Status != models.StatusSkipped {
			t.Fatalf("expected skipped, got %s", result.Status)
		}
		if !errors.Is(result.Err, shared.ErrNoSearchResults) {
			t.Errorf("expected ErrNoSearchResults, got %v", result.Err)
		}
		if len(downloader.stems) != 0 {
			t.Error("expected no download attempt")
		}
	})

	t.Run("Search Failed", func(t *testing.T) {
		searcher := &fakeSearcher{err: shared.ErrServiceUnavailable}
		fetcher := NewFetcher(FetcherOpts{Searcher: searcher, Downloader: &fakeDownloader{}, Logger: logger})

		result := fetcher.FetchAudio(ctx, blue, t.TempDir())
		if result.Status != models.StatusFailed {
			t.Fatalf("expected failed, got %s", result.Status)
		}
		if !errors.Is(result.Err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", result.Err)
		}
	})

	t.Run("Download Failed", func(t *testing.T) {
		dir := t.TempDir()
		searcher := &fakeSearcher{results: map[string][]models.Video{"Blue X": {{ID: "abc"}}}}
		downloader := &fakeDownloader{err: shared.ErrNoAudioStream}
		fetcher := NewFetcher(FetcherOpts{Searcher: searcher, Downloader: downloader, Logger: logger})

		result := fetcher.FetchAudio(ctx, blue, dir)
		if result.Status != models.StatusFailed {
			t.Fatalf("expected failed, got %s", result.Status)
		}
		if result.Path != "" {
			t.Errorf("expected no path, got %s", result.Path)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected empty output dir, got %d entries", len(entries))
		}
	})

	t.Run("Search Limit Defaults To One", func(t *testing.T) {
		fetcher := NewFetcher(FetcherOpts{Searcher: &fakeSearcher{}, Downloader: &fakeDownloader{}})
		if fetcher.searchResults != 1 {
			t.Errorf("expected 1, got %d", fetcher.searchResults)
		}
	})
}
