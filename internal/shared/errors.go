package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Daemon connection errors
	ErrDaemonUnavailable = fmt.Errorf("daemon unavailable")
	ErrNotConnected      = fmt.Errorf("not connected")
	ErrHandshake         = fmt.Errorf("unexpected handshake")
	ErrDaemonRequest     = fmt.Errorf("daemon request failed")
	ErrPermission        = fmt.Errorf("permission denied")
	ErrTimeout           = fmt.Errorf("operation timed out")

	// Queue errors
	ErrDuplicateSongID = fmt.Errorf("song id already queued")
	ErrInvalidRange    = fmt.Errorf("invalid queue range")

	// Library and playlist errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrScanNotFound     = fmt.Errorf("scan not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
