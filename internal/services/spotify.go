package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1/"

	// maxItemsPerPage is the playlist items page size and the audio-features batch limit.
	maxItemsPerPage = 100
)

var _ PlaylistReader = (*SpotifyService)(nil)

// SpotifyService reads playlists and audio features through [spotify.Client].
//
// Requests are paced by a [rate.Limiter]; tempo values are read through an optional [TempoCache].
type SpotifyService struct {
	credentials *clientcredentials.Config
	apiURL      string
	transport   http.RoundTripper
	limiter     *rate.Limiter
	cache       TempoCache
	strictTempo bool
	logger      *log.Logger
	client      *spotify.Client
}

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithTempoCache makes the service consult and fill c before calling the audio-features endpoint.
func WithTempoCache(c TempoCache) SpotifyOption {
	return func(s *SpotifyService) { s.cache = c }
}

// WithSpotifyLogger sets the logger used for tempo warnings.
func WithSpotifyLogger(l *log.Logger) SpotifyOption {
	return func(s *SpotifyService) { s.logger = l }
}

// WithTransport sets the base HTTP transport for token and API requests.
func WithTransport(rt http.RoundTripper) SpotifyOption {
	return func(s *SpotifyService) { s.transport = rt }
}

// NewSpotifyService creates a SpotifyService from explicit configuration.
func NewSpotifyService(creds shared.SpotifyConfig, api shared.SpotifyAPIConfig, opts ...SpotifyOption) (*SpotifyService, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	tokenURL := api.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	apiURL := api.APIURL
	if apiURL == "" {
		apiURL = spotifyBaseURL
	}

	limit := rate.Inf
	if api.RequestsPerSecond > 0 {
		limit = rate.Limit(api.RequestsPerSecond)
	}

	s := &SpotifyService{
		credentials: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
		},
		apiURL:      apiURL,
		transport:   http.DefaultTransport,
		limiter:     rate.NewLimiter(limit, 1),
		strictTempo: api.StrictTempo,
		logger:      shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authenticate fetches an access token and builds the API client.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	base := &http.Client{Transport: &limitedTransport{next: s.transport, limiter: s.limiter}}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	token, err := s.credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, s.credentials.TokenSource(ctx)))
	s.client = spotify.New(httpClient, spotify.WithBaseURL(s.apiURL), spotify.WithRetry(true))
	return nil
}

func (s *SpotifyService) ensureClient(ctx context.Context) (*spotify.Client, error) {
	if s.client == nil {
		if err := s.Authenticate(ctx); err != nil {
			return nil, err
		}
	}
	return s.client, nil
}

// FetchTracks returns every track of the playlist with tempo applied, following next-page cursors
// until the listing is exhausted.
func (s *SpotifyService) FetchTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	page, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(maxItemsPerPage))
	if err != nil {
		return nil, wrapSpotifyError(err, playlistID)
	}

	var tracks []models.Track
	for {
		batch := tracksFromItems(page.Items)
		if err := s.applyTempo(ctx, batch); err != nil {
			return nil, err
		}
		tracks = append(tracks, batch...)

		s.logger.Debug("fetched playlist page", "playlist", playlistID, "tracks", len(tracks), "total", page.Total)

		err = client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, wrapSpotifyError(err, playlistID)
		}
	}

	return tracks, nil
}

// FetchTitle returns the display name of the playlist.
func (s *SpotifyService) FetchTitle(ctx context.Context, playlistID string) (string, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	playlist, err := client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return "", wrapSpotifyError(err, playlistID)
	}
	return playlist.Name, nil
}

// applyTempo fills BPM for tracks that have a Spotify ID, from the cache first and then from the
// audio-features endpoint. Missing features leave the track's tempo unknown unless strict mode is set.
func (s *SpotifyService) applyTempo(ctx context.Context, tracks []models.Track) error {
	pending := make(map[spotify.ID][]int)
	var ids []spotify.ID

	for i := range tracks {
		id := tracks[i].ID
		if id == "" {
			continue
		}
		if tempo, ok := s.cachedTempo(id); ok {
			tracks[i].BPM, tracks[i].TempoKnown = tempo, true
			continue
		}
		sid := spotify.ID(id)
		if _, seen := pending[sid]; !seen {
			ids = append(ids, sid)
		}
		pending[sid] = append(pending[sid], i)
	}

	for start := 0; start < len(ids); start += maxItemsPerPage {
		batch := ids[start:min(start+maxItemsPerPage, len(ids))]

		features, err := s.client.GetAudioFeatures(ctx, batch...)
		if err != nil {
			if s.strictTempo {
				return fmt.Errorf("%w: %v", shared.ErrTempoUnavailable, err)
			}
			s.logger.Warn("audio features request failed, tempo unknown for batch", "tracks", len(batch), "error", err)
			continue
		}

		for _, f := range features {
			if f == nil {
				continue
			}
			tempo := tempoValue(f.Tempo)
			for _, idx := range pending[f.ID] {
				tracks[idx].BPM, tracks[idx].TempoKnown = tempo, true
			}
			s.storeTempo(f.ID.String(), tempo)
		}
	}

	for _, t := range tracks {
		if t.TempoKnown {
			continue
		}
		if s.strictTempo {
			return fmt.Errorf("%w: %s - %s", shared.ErrTempoUnavailable, t.Name, t.Artist)
		}
		s.logger.Warn("tempo unknown", "track", t.Name, "artist", t.Artist)
	}
	return nil
}

func (s *SpotifyService) cachedTempo(trackID string) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	tempo, ok, err := s.cache.LookupTempo(trackID)
	if err != nil {
		s.logger.Warn("tempo cache lookup failed", "track_id", trackID, "error", err)
		return 0, false
	}
	return tempo, ok
}

func (s *SpotifyService) storeTempo(trackID string, tempo float64) {
	if s.cache == nil || tempo <= 0 {
		return
	}
	if err := s.cache.StoreTempo(trackID, tempo); err != nil {
		s.logger.Warn("tempo cache store failed", "track_id", trackID, "error", err)
	}
}

// tracksFromItems converts playlist items to [models.Track], keeping only the first artist.
// Episodes and removed entries carry no track and are dropped.
func tracksFromItems(items []spotify.PlaylistItem) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		full := item.Track.Track
		if full == nil {
			continue
		}

		var artist string
		if len(full.Artists) > 0 {
			artist = full.Artists[0].Name
		}
		tracks = append(tracks, models.Track{ID: full.ID.String(), Name: full.Name, Artist: artist})
	}
	return tracks
}

// tempoValue widens the API's float32 tempo without picking up binary noise (128.3 stays 128.3).
func tempoValue(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'f', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

func wrapSpotifyError(err error, playlistID string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
