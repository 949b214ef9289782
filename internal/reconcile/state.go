// Package reconcile decides which of the local cache, the remote service
// and the in-memory view is authoritative at each point in a session, and
// keeps the three converged without losing data on transient remote failure.
package reconcile

import "github.com/studenthub/studenthub/internal/models"

// State names the controller's position in its session lifecycle.
type State int

const (
	// StateEmpty means nothing is displayed yet.
	StateEmpty State = iota
	// StateCacheLoaded means the local cache is the displayed state.
	StateCacheLoaded
	// StateSyncing means a remote fetch is in flight.
	StateSyncing
	// StateSynced means the displayed state reflects a remote response.
	StateSynced
	// StateError means a remote failure with no cache to fall back on.
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCacheLoaded:
		return "cache-loaded"
	case StateSyncing:
		return "syncing"
	case StateSynced:
		return "synced"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the displayed state at a point in time.
type Snapshot struct {
	State State
	Posts []models.Post
	Err   string
}

// ErrFetchFailed is the user-facing message shown when a fetch fails with
// no cache to fall back on.
const ErrFetchFailed = "Failed to fetch ideas. Please try again."

// bootstrapTransition computes the state adopted on startup. The cache, when
// present, wins outright; otherwise the demo dataset is adopted and must be
// persisted. No transition out of bootstrap consults the remote service.
func bootstrapTransition(cached []models.Post, cacheHit bool) (next Snapshot, persist bool) {
	if cacheHit {
		return Snapshot{State: StateCacheLoaded, Posts: cached}, false
	}
	return Snapshot{State: StateCacheLoaded, Posts: models.SeedClientPosts()}, true
}

// refreshTransition computes the state after an explicit remote fetch
// resolves. A non-empty remote result is authoritative and replaces the
// displayed state; an empty result is treated as not authoritative, so the
// prior state survives. On failure the cache wins when warm; a cold cache
// surfaces the error over an empty view.
func refreshTransition(prev Snapshot, fetched []models.Post, fetchErr error, cached []models.Post, cacheHit bool) (next Snapshot, persist bool) {
	if fetchErr != nil {
		if cacheHit {
			return Snapshot{State: StateCacheLoaded, Posts: cached}, false
		}
		return Snapshot{State: StateError, Posts: []models.Post{}, Err: ErrFetchFailed}, false
	}
	if len(fetched) == 0 {
		return Snapshot{State: StateSynced, Posts: prev.Posts}, false
	}
	return Snapshot{State: StateSynced, Posts: fetched}, true
}

// nextLocalID returns one past the highest id currently displayed, the id
// namespace used for posts created while the server is unreachable.
func nextLocalID(posts []models.Post) int {
	max := 0
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}
