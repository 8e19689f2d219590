package queue

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/v2/lists/arraylist"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// List mirrors the daemon's play queue: a positional sequence of songs plus
// a songid index over the same entries.
//
// The sequence may contain empty slots when songs arrive with positions past
// the current end; position lookups treat those slots as absent. A single
// lock guards both views, so no reader ever observes the sequence and the
// index out of step.
type List struct {
	mu    sync.RWMutex
	songs *arraylist.List[*models.Song]
	byID  map[int]*models.Song
}

// New creates an empty List.
func New() *List {
	return &List{
		songs: arraylist.New[*models.Song](),
		byID:  make(map[int]*models.Song),
	}
}

// NewFrom creates a List holding other's current songs in order. The copy
// goes through the bulk path: empty slots are carried over as-is and the
// songid index starts empty, exactly as with [List.Append].
func NewFrom(other *List) *List {
	l := New()
	l.Append(other.Songs()...)
	return l
}

// Add indexes song by its id and places it at song.Pos in the sequence,
// growing the sequence with empty slots as needed. Slots between the old end
// and song.Pos stay absent; that is the normal state while the daemon
// streams changes out of order.
//
// Fails with [shared.ErrDuplicateSongID] when the id is already indexed,
// leaving the list unchanged.
func (l *List) Add(song *models.Song) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byID[song.ID]; ok {
		return fmt.Errorf("%w: %d", shared.ErrDuplicateSongID, song.ID)
	}

	l.byID[song.ID] = song
	for l.songs.Size() < song.Pos+1 {
		l.songs.Add(nil)
	}
	l.songs.Set(song.Pos, song)
	return nil
}

// Append adds songs to the end of the sequence without touching the songid
// index. Bulk loads skip indexing; appended songs stay invisible to ByID
// until they come back through [List.Add].
func (l *List) Append(songs ...*models.Song) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.songs.Add(songs...)
}

// Clear empties both the sequence and the songid index.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

// reset assumes l.mu is held for writing.
func (l *List) reset() {
	l.songs.Clear()
	clear(l.byID)
}

// ByID returns the song indexed under id. A miss is not an error: bulk
// loaded entries are never indexed, and ids vanish as songs leave the queue.
func (l *List) ByID(id int) (*models.Song, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	song, ok := l.byID[id]
	return song, ok
}

// ByPosition returns the song at pos. The second result is false when pos is
// out of range or the slot is empty; neither case is an error.
func (l *List) ByPosition(pos int) (*models.Song, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	song, ok := l.songs.Get(pos)
	if !ok || song == nil {
		return nil, false
	}
	return song, true
}

// Songs returns a snapshot of the sequence, empty slots included. Mutating
// the returned slice does not affect the list.
func (l *List) Songs() []*models.Song {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.songs.Values()
}

// RemoveByID removes the song indexed under id from both views, shifting
// later entries down one position. Unindexed ids are a no-op.
func (l *List) RemoveByID(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.byID[id]
	if !ok {
		return
	}
	delete(l.byID, id)
	if i := l.songs.IndexOf(song); i >= 0 {
		l.songs.Remove(i)
	}
}

// RemoveByPosition removes the slot at pos, shifting later entries down one
// position, and drops the occupant from the songid index. Out of range
// positions and empty slots are a no-op.
func (l *List) RemoveByPosition(pos int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.songs.Get(pos)
	if !ok || song == nil {
		return
	}
	l.songs.Remove(pos)
	delete(l.byID, song.ID)
}

// Replace swaps the whole queue for songs in one step. Readers observe
// either the previous queue or the new one, never the emptied state in
// between. Like [List.Append], the new contents go through the bulk path and
// leave the songid index empty.
func (l *List) Replace(songs []*models.Song) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
	l.songs.Add(songs...)
}

// Len returns the sequence length, empty slots included.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.songs.Size()
}

// Slice returns a snapshot of the sequence over the half-open range
// [from, to). Bounds outside 0 <= from <= to <= Len fail with
// [shared.ErrInvalidRange].
func (l *List) Slice(from, to int) ([]*models.Song, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	size := l.songs.Size()
	if from < 0 || to > size || from > to {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", shared.ErrInvalidRange, from, to, size)
	}
	return l.songs.Values()[from:to], nil
}
