package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
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
	FetchStatus Phase = iota
	FetchQueue
	ApplyChanges
	ClearQueue
	LoadPlaylist
	FetchPlaylist
	CompareQueue
	WalkLibrary
	CacheSongs
	ExportPlaylist
	WatchChange
	QueueSynced
)

func (p Phase) String() string {
	switch p {
	case FetchStatus:
		return "fetch_status"
	case FetchQueue:
		return "fetch_queue"
	case ApplyChanges:
		return "apply_changes"
	case ClearQueue:
		return "clear_queue"
	case LoadPlaylist:
		return "load_playlist"
	case FetchPlaylist:
		return "fetch_playlist"
	case CompareQueue:
		return "compare_queue"
	case WalkLibrary:
		return "walk_library"
	case CacheSongs:
		return "cache_songs"
	case ExportPlaylist:
		return "export_playlist"
	case WatchChange:
		return "watch_change"
	case QueueSynced:
		return "queue_synced"
	default:
		return ""
	}
}

func fetchStatusUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStatus,
		Step:    step,
		Total:   total,
		Message: "Fetching daemon status...",
	}
}

func fetchQueueUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchQueue,
		Step:    step,
		Total:   total,
		Message: "Fetching queue from daemon...",
	}
}

func applyChangesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyChanges,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Applying %d queue changes...", count),
	}
}

func clearQueueUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearQueue,
		Step:    step,
		Total:   total,
		Message: "Clearing queue...",
	}
}

func loadPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading playlist '%s'...", name),
	}
}

func fetchPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching playlist '%s'...", name),
	}
}

func compareQueueUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompareQueue,
		Step:    step,
		Total:   total,
		Message: "Comparing playlist against queue...",
	}
}

func walkLibraryUpdate(dir string, visited int) ProgressUpdate {
	name := dir
	if name == "" {
		name = "/"
	}
	return ProgressUpdate{
		Phase:   WalkLibrary,
		Step:    visited,
		Total:   0,
		Message: fmt.Sprintf("Walking %s...", name),
	}
}

func cacheSongsUpdate(cached, processed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheSongs,
		Step:    processed,
		Total:   0,
		Message: fmt.Sprintf("Cached %d of %d songs...", cached, processed),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func watchChangeUpdate(subsystem string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchChange,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Daemon reported %s change", subsystem),
		Data:    subsystem,
	}
}

func queueSyncedUpdate(refresh *RefreshResult) ProgressUpdate {
	message := fmt.Sprintf("Queue synced: %d changed, %d removed", refresh.Changed, refresh.Removed)
	if refresh.Full {
		message = fmt.Sprintf("Queue reloaded: %d songs", refresh.Changed)
	}
	return ProgressUpdate{
		Phase:   QueueSynced,
		Step:    1,
		Total:   1,
		Message: message,
		Data:    refresh,
	}
}
