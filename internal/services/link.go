package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/tempodl/internal/shared"
)

var (
	playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	// Spotify IDs are 22 base62 characters.
	barePlaylistIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
)

// PlaylistIDFromURL extracts the playlist identifier from a share link.
//
// Accepted forms:
//
//	https://open.spotify.com/playlist/<id>[?query]
//	spotify:playlist:<id>
//	<id>
//
// A bare id must be exactly 22 alphanumeric characters.
// For links the identifier is the path segment after "playlist" (index 4 when split on "/"), with any
// query string or fragment removed. Anything else yields [shared.ErrUnrecognizedPlaylistURL].
func PlaylistIDFromURL(link string) (string, error) {
	link = strings.TrimSpace(link)

	switch {
	case strings.HasPrefix(link, "spotify:playlist:"):
		return validPlaylistID(link, strings.TrimPrefix(link, "spotify:playlist:"))
	case !strings.Contains(link, "/"):
		if !barePlaylistIDPattern.MatchString(link) {
			return "", fmt.Errorf("%w: %q", shared.ErrUnrecognizedPlaylistURL, link)
		}
		return link, nil
	}

	parts := strings.Split(link, "/")
	if len(parts) < 5 || !strings.HasPrefix(parts[0], "http") || parts[1] != "" || parts[2] == "" || parts[3] != "playlist" {
		return "", fmt.Errorf("%w: %q", shared.ErrUnrecognizedPlaylistURL, link)
	}

	id, _, _ := strings.Cut(parts[4], "?")
	id, _, _ = strings.Cut(id, "#")
	return validPlaylistID(link, id)
}

func validPlaylistID(link, id string) (string, error) {
	if !playlistIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", shared.ErrUnrecognizedPlaylistURL, link)
	}
	return id, nil
}
