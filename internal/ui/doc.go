// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for loading stored playlists into the daemon's queue:
//  1. [PlaylistListView] : Browse the daemon's stored playlists
//  2. [SongListView] : Preview a playlist's songs before loading
//  3. [ConfirmView] : Confirm replacing the queue
//  4. [LoadingView] : Monitor real-time progress updates
//  5. [ResultView] : Display the synchronized queue mirror
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the QueueEngine, providing non-blocking status reporting while the queue reloads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
