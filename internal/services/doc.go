// Package services implements the remote collaborators of a playlist download: the Spotify playlist
// reader and the YouTube match-and-fetch worker.
//
// # Playlist Identifiers
//
// [PlaylistIDFromURL] turns a share link (or spotify: URI, or bare ID) into the opaque playlist key.
// Malformed input returns [shared.ErrUnrecognizedPlaylistURL] instead of guessing.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client-credentials flow and talks to the Web API
// through zmb3/spotify. Every request (token included) waits on a shared rate limiter.
//
// Track listings are paged; the service follows next cursors until [spotify.ErrNoMorePages], so the
// result always covers the whole playlist in source order. Each track's tempo comes from the
// audio-features endpoint, optionally short-circuited by a [TempoCache]. A tempo that cannot be
// fetched leaves [models.Track.TempoKnown] false unless strict mode turns it into
// [shared.ErrTempoUnavailable].
//
// # YouTube Implementation
//
// [YtdlpClient] drives yt-dlp via lrstanley/go-ytdlp: "ytsearchN:" queries for search and the
// "bestaudio" selector with audio extraction for downloads. [NativeDownloader] is a pure-Go alternative
// built on kkdai/youtube that saves the highest-bitrate audio-only stream without transcoding.
//
// [Fetcher] composes a [VideoSearcher] and an [AudioDownloader] into the per-track worker. It takes the
// first hit, names the file "{bpm} BPM — {song} - {artist}", tags mp3 output with [TagTempo], and reports
// the outcome as a [models.TrackResult] value:
//   - succeeded : file written, path recorded
//   - skipped : search returned nothing ([shared.ErrNoSearchResults])
//   - failed : search transport error, no audio stream, or download error
//
// # Error Handling
//
// Reader errors use typed errors from the shared package:
//   - [shared.ErrMissingCredentials] : client ID or secret absent
//   - [shared.ErrAuthFailed] : token request rejected, or 401/403 from the API
//   - [shared.ErrPlaylistNotFound] : 404 on the playlist
//   - [shared.ErrAPIRequest] : any other listing failure
package services
