package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTempoUnavailable   = fmt.Errorf("tempo unavailable")

	// Download errors
	ErrNoSearchResults = fmt.Errorf("no search results")
	ErrNoAudioStream   = fmt.Errorf("no audio-only stream")
	ErrDownloadFailed  = fmt.Errorf("download failed")
	ErrOutputDir       = fmt.Errorf("output directory unusable")

	// Input validation errors
	ErrUnrecognizedPlaylistURL = fmt.Errorf("unrecognized playlist URL")
	ErrMissingArgument         = fmt.Errorf("missing required argument")
	ErrInvalidFlag             = fmt.Errorf("invalid flag value")
)
