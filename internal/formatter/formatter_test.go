package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
	th "github.com/desertthunder/tempodl/internal/testing"
)

func testPlaylist() *models.Playlist {
	return &models.Playlist{
		ID:    "pl1",
		Title: "Summer Mix",
		Tracks: []models.Track{
			{ID: "t1", Name: "Blue", Artist: "X", BPM: 128.3, TempoKnown: true},
			{ID: "t2", Name: "Red | Dub", Artist: "Y", BPM: 120, TempoKnown: true},
			{Name: "Home Demo", Artist: "Z"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{in: "", want: FormatText},
		{in: "txt", want: FormatText},
		{in: "CSV", want: FormatCSV},
		{in: "md", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: " json ", want: FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header and 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Name,Artist,BPM,File" {
			t.Errorf("unexpected headers: %v", records[0])
		}
		if records[1][3] != "128.3" || records[1][4] != "128.3 BPM — Blue - X" {
			t.Errorf("unexpected first row: %v", records[1])
		}
		if records[2][3] != "120.0" {
			t.Errorf("expected 120.0, got %s", records[2][3])
		}
		if records[3][3] != "unknown" {
			t.Errorf("expected unknown tempo, got %s", records[3][3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Summer Mix",
			"**Tracks**: 3",
			"| 1 | Blue | X | 128.3 |",
			`| 2 | Red \| Dub | Y | 120.0 |`,
			"| 3 | Home Demo | Z | unknown |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Playlist: Summer Mix", "Tracks: 3", "1. 128.3 BPM  Blue - X", "3. unknown BPM  Home Demo - Z"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.Playlist
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Title != "Summer Mix" || len(decoded.Tracks) != 3 || decoded.Tracks[0].BPM != 128.3 {
			t.Errorf("unexpected decoded playlist: %+v", decoded)
		}
	})

	t.Run("Empty Playlist", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON} {
			if _, err := Export(&models.Playlist{ID: "empty"}, f); err != nil {
				t.Errorf("%s: expected no error, got %v", f, err)
			}
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Export(testPlaylist(), Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mix.csv")
		got, err := WriteExport(testPlaylist(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if !strings.HasPrefix(th.MustReadFile(t, path), "ID,Name,Artist,BPM,File") {
			t.Error("expected CSV content")
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		t.Cleanup(func() { th.MustChdir(t, wd) })

		got, err := WriteExport(testPlaylist(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != "pl1_tracks.md" {
			t.Errorf("expected pl1_tracks.md, got %s", got)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("Unwritable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
		if _, err := WriteExport(testPlaylist(), FormatText, path); err == nil {
			t.Error("expected error for missing parent directory")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected no file")
		}
	})
}
