// Package tasks orchestrates a playlist download with real-time progress reporting.
//
// # Core Operations
//
// The [DownloadEngine] interface defines three operations:
//
//  1. [DownloadEngine.Playlist] : Read a playlist
//     - Authenticates with the playlist reader
//     - Fetches every page of tracks with tempo
//     - Fetches the display title
//
//  2. [DownloadEngine.Run] : Full playlist download
//     - Reads the playlist as above
//     - Creates "<output base>/<title>" (existing directories are reused)
//     - Fetches each track through a [services.AudioFetcher]
//     - Returns a [models.RunSummary] with attempted/succeeded/skipped/failed counts
//
//  3. [DownloadEngine.Download] : Download a playlist already read with [DownloadEngine.Playlist]
//     - Same as Run without reading the playlist again, used by the interactive view
//
// # Failure Isolation
//
// Listing errors (auth, network, unknown playlist) and an unusable output directory abort the run.
// Per-track problems never do: the fetcher returns a typed [models.TrackResult], and a panic inside it
// is recovered into a failed result.
//
// # Concurrency
//
// Tracks are processed one at a time by default. With [EngineOpts.Concurrency] above 1 a bounded
// [errgroup.Group] runs that many fetches at once; results are still reported in playlist order.
// Cancelling the context stops the run between tracks.
//
// # Progress Reporting
//
// [ProgressUpdate] values flow through a caller-owned channel. Sends use select with default so a slow
// consumer never stalls the download.
package tasks
