package tasks

import (
	"fmt"

	"github.com/desertthunder/tempodl/internal/models"
)

// ProgressUpdate represents a progress event during a playlist download.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	FetchTracks
	FetchTitle
	Download
	TrackDone
	Finished
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case FetchTracks:
		return "fetch_tracks"
	case FetchTitle:
		return "fetch_title"
	case Download:
		return "download"
	case TrackDone:
		return "track_done"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func authenticateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    1,
		Total:   1,
		Message: "Authenticating with Spotify...",
	}
}

func fetchTracksUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tracks of playlist %s...", playlistID),
	}
}

func fetchTitleUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTitle,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d tracks, fetching playlist title...", total),
	}
}

func downloadUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Name, tr.Artist),
		Data:    tr,
	}
}

func trackDoneUpdate(step, total int, res models.TrackResult) ProgressUpdate {
	var mark string
	switch res.Status {
	case models.StatusSucceeded:
		mark = "✓"
	case models.StatusSkipped:
		mark = "-"
	default:
		mark = "✗"
	}

	msg := fmt.Sprintf("[%d/%d] %s %s - %s", step, total, mark, res.Track.Name, res.Track.Artist)
	if res.Status == models.StatusFailed && res.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, res.Err)
	}

	return ProgressUpdate{
		Phase:   TrackDone,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func finishedUpdate(summary *models.RunSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finished,
		Step:  summary.Attempted,
		Total: len(summary.Playlist.Tracks),
		Message: fmt.Sprintf("Finished: %d succeeded, %d skipped, %d failed",
			summary.Succeeded, summary.Skipped, summary.Failed),
		Data: summary,
	}
}
