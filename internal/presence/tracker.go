// Package presence tracks who has recently changed records of a resource,
// built from the change notices a watch session receives.
//
// Entries are kept in memory only. Actors that have been quiet for longer
// than the eviction age are dropped on the next Record or Prune, so a
// long-running watch does not grow without bound.
package presence

import (
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/hrms/internal/events"
)

// DefaultEvictAfter is how long an actor stays tracked after its last change.
const DefaultEvictAfter = 30 * time.Minute

// Entry is one actor's recent activity.
type Entry struct {
	Actor      string    `json:"actor"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	LastAction string    `json:"last_action"`
	LastID     string    `json:"last_id,omitempty"`
	Resource   string    `json:"resource"`
	Changes    int64     `json:"changes"`
	IdleSecs   float64   `json:"idle_secs"`
}

// Tracker maintains an in-memory roster of actors.
type Tracker struct {
	mu         sync.RWMutex
	actors     map[string]*actorState
	evictAfter time.Duration
	now        func() time.Time
}

type actorState struct {
	firstSeen  time.Time
	lastSeen   time.Time
	lastAction string
	lastID     string
	resource   string
	changes    int64
}

// New creates a tracker that forgets actors evictAfter after their last
// change. Zero uses DefaultEvictAfter.
func New(evictAfter time.Duration) *Tracker {
	if evictAfter <= 0 {
		evictAfter = DefaultEvictAfter
	}
	return &Tracker{
		actors:     make(map[string]*actorState),
		evictAfter: evictAfter,
		now:        time.Now,
	}
}

// Record notes one change. Notices without an actor are ignored. The
// notice time is used when set, otherwise the time of arrival.
func (t *Tracker) Record(c events.Change) {
	if c.Actor == "" {
		return
	}
	now := t.now()
	at := c.At
	if at.IsZero() || at.After(now) {
		at = now
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)

	state, ok := t.actors[c.Actor]
	if !ok {
		state = &actorState{firstSeen: at}
		t.actors[c.Actor] = state
	}
	if at.Before(state.lastSeen) {
		// Out-of-order delivery: count it, keep the newer summary.
		state.changes++
		return
	}
	state.lastSeen = at
	state.lastAction = c.Action
	state.lastID = c.ID
	state.resource = c.Resource
	state.changes++
}

// Roster returns the tracked actors, most recently active first. Actors
// idle for longer than window are left out; zero includes all.
func (t *Tracker) Roster(window time.Duration) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	entries := make([]Entry, 0, len(t.actors))
	for actor, state := range t.actors {
		idle := now.Sub(state.lastSeen)
		if window > 0 && idle > window {
			continue
		}
		entries = append(entries, Entry{
			Actor:      actor,
			FirstSeen:  state.firstSeen,
			LastSeen:   state.lastSeen,
			LastAction: state.lastAction,
			LastID:     state.lastID,
			Resource:   state.resource,
			Changes:    state.changes,
			IdleSecs:   idle.Seconds(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastSeen.Equal(entries[j].LastSeen) {
			return entries[i].Actor < entries[j].Actor
		}
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries
}

// Prune drops actors idle for longer than the eviction age and returns how
// many were removed.
func (t *Tracker) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pruneLocked(t.now())
}

func (t *Tracker) pruneLocked(now time.Time) int {
	n := 0
	for actor, state := range t.actors {
		if now.Sub(state.lastSeen) > t.evictAfter {
			delete(t.actors, actor)
			n++
		}
	}
	return n
}

// Len returns the number of tracked actors.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.actors)
}
