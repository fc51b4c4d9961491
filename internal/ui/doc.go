// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a single playlist download:
//  1. [TrackListView] : Preview the playlist's tracks with their tempo
//  2. [ConfirmView] : Confirm the download and its target directory
//  3. [DownloadView] : Spinner, progress bar and the latest per-track outcomes
//  4. [ResultView] : Succeeded/skipped/failed counts and the tracks that did not make it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.DownloadEngine], providing non-blocking status reporting during downloads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
