package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/tempodl/internal/shared"
)

func TestPlaylistIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{name: "Share Link", link: "https://open.spotify.com/playlist/3cEYpjA9oz9GiPac4AsH4n?si=8d3f2a", want: "3cEYpjA9oz9GiPac4AsH4n"},
		{name: "No Query", link: "https://open.spotify.com/playlist/3cEYpjA9oz9GiPac4AsH4n", want: "3cEYpjA9oz9GiPac4AsH4n"},
		{name: "Fragment", link: "https://open.spotify.com/playlist/3cEYpjA9oz9GiPac4AsH4n#top", want: "3cEYpjA9oz9GiPac4AsH4n"},
		{name: "Trailing Slash", link: "https://open.spotify.com/playlist/3cEYpjA9oz9GiPac4AsH4n/", want: "3cEYpjA9oz9GiPac4AsH4n"},
		{name: "Surrounding Space", link: "  https://open.spotify.com/playlist/abc123\n", want: "abc123"},
		{name: "URI", link: "spotify:playlist:3cEYpjA9oz9GiPac4AsH4n", want: "3cEYpjA9oz9GiPac4AsH4n"},
		{name: "Bare ID", link: "3cEYpjA9oz9GiPac4AsH4n", want: "3cEYpjA9oz9GiPac4AsH4n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlaylistIDFromURL(tt.link)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("Rejects", func(t *testing.T) {
		bad := []string{
			"",
			"https://open.spotify.com/album/3cEYpjA9oz9GiPac4AsH4n",
			"https://open.spotify.com/playlist/",
			"https://open.spotify.com",
			"open.spotify.com/playlist/abc",
			"spotify:track:abc",
			"not a link",
			"abc",
			"playlist",
			"3cEYpjA9oz9GiPac4AsH4",
			"3cEYpjA9oz9GiPac4AsH4nX",
			"3cEYpjA9oz9GiPac4AsH4!",
		}
		for _, link := range bad {
			if _, err := PlaylistIDFromURL(link); !errors.Is(err, shared.ErrUnrecognizedPlaylistURL) {
				t.Errorf("%q: expected ErrUnrecognizedPlaylistURL, got %v", link, err)
			}
		}
	})
}
