// package testing contains shared test doubles and filesystem assertions
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/tempodl/internal/models"
)

// MockReader is a test double for [services.PlaylistReader] serving a fixed playlist.
type MockReader struct {
	Title    string
	Tracks   []models.Track
	AuthErr  error
	TrackErr error
	TitleErr error

	mu    sync.Mutex
	calls []string
}

func (m *MockReader) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the reader methods invoked so far, in order.
func (m *MockReader) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockReader) Authenticate(ctx context.Context) error {
	m.record("Authenticate")
	return m.AuthErr
}

func (m *MockReader) FetchTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.record("FetchTracks")
	if m.TrackErr != nil {
		return nil, m.TrackErr
	}
	return append([]models.Track(nil), m.Tracks...), nil
}

func (m *MockReader) FetchTitle(ctx context.Context, playlistID string) (string, error) {
	m.record("FetchTitle")
	if m.TitleErr != nil {
		return "", m.TitleErr
	}
	return m.Title, nil
}

// MockSearcher is a test double for [services.VideoSearcher] keyed by query.
//
// Queries listed in Errors fail; unknown queries return no hits.
type MockSearcher struct {
	Results map[string][]models.Video
	Errors  map[string]error
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	if err, ok := m.Errors[query]; ok {
		return nil, err
	}
	hits := m.Results[query]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// MockDownloader is a test double for [services.AudioDownloader] that writes the video ID to dir/stem.Ext.
type MockDownloader struct {
	Ext string
	Err error
}

func (m *MockDownloader) Download(ctx context.Context, video models.Video, dir, stem string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	ext := m.Ext
	if ext == "" {
		ext = "mp3"
	}
	path := filepath.Join(dir, stem+"."+ext)
	if err := os.WriteFile(path, []byte(video.ID), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
