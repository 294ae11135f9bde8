package engine

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/inovacc/worklog/internal/model"
)

// Session is the application state for one logged-in user: the in-memory
// mirror of every collection, the sync status, and the editing and
// mutation-time signals the scheduler keys off. It is shared between the
// foreground mutation path and the background reconciliation goroutine;
// the last writer wins, matching the remote-wins design.
type Session struct {
	mu           sync.Mutex
	user         model.SessionUser
	alive        bool
	data         model.Collections
	seeded       map[model.EntityType]bool
	status       model.Status
	lastMutation time.Time
	editing      bool

	now func() time.Time
}

// NewSession creates the state for a fresh session.
func NewSession(user model.SessionUser) *Session {
	return &Session{
		user:   user,
		alive:  true,
		seeded: make(map[model.EntityType]bool),
		status: model.Status{State: model.SyncOffline, Message: "not yet synchronized"},
		now:    time.Now,
	}
}

// User returns the logged-in user.
func (s *Session) User() model.SessionUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Alive reports whether the session is still open.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.alive
}

// Close ends the session. Reconciliation results that arrive afterwards
// are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alive = false
}

// Collections returns a copy of the current in-memory collections.
func (s *Session) Collections() model.Collections {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Clone()
}

// Status returns the current sync status.
func (s *Session) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// SetEditing marks whether a user currently has an edit form open.
// While true, the scheduler skips reconciliation entirely.
func (s *Session) SetEditing(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editing = active
}

// Editing reports whether an edit is in progress.
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editing
}

// SinceLastMutation returns the time elapsed since the last local
// mutation, or a very large duration when none happened yet.
func (s *Session) SinceLastMutation() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastMutation.IsZero() {
		return time.Duration(1<<63 - 1)
	}

	return s.now().Sub(s.lastMutation)
}

// Established reports whether the collection has been populated this
// session, from the remote store or from the cache.
func (s *Session) Established(et model.EntityType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seeded[et]
}

func (s *Session) setStatus(state model.SyncState, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return
	}

	s.status = model.Status{State: state, Message: message}
}

// replaceCollection decodes raw as the collection for et and replaces
// the in-memory state with it. It returns the normalized serialized form
// for the cache write. Results are discarded once the session is closed.
func (s *Session) replaceCollection(et model.EntityType, raw []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return nil, ErrSessionClosed
	}

	if err := decodeCollection(et, raw, &s.data); err != nil {
		return nil, err
	}

	s.seeded[et] = true

	return marshalCollection(et, s.data)
}

// mutate applies fn to the collections under the session lock and
// returns the serialized snapshots of the entity types named in persist,
// for writing through to the cache. The mutation time is bumped so the
// scheduler backs off.
func (s *Session) mutate(fn func(*model.Collections), persist ...model.EntityType) (map[model.EntityType][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return nil, ErrSessionClosed
	}

	fn(&s.data)
	s.lastMutation = s.now()

	snapshots := make(map[model.EntityType][]byte, len(persist))
	for _, et := range persist {
		data, err := marshalCollection(et, s.data)
		if err != nil {
			return nil, err
		}
		snapshots[et] = data
	}

	return snapshots, nil
}

func decodeCollection(et model.EntityType, raw []byte, into *model.Collections) error {
	switch et {
	case model.EntityClients:
		var v []model.Client
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s collection: %w", et, err)
		}
		into.Clients = v
	case model.EntityProjects:
		var v []model.Project
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s collection: %w", et, err)
		}
		into.Projects = v
	case model.EntityWorkStations:
		var v []model.WorkStation
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s collection: %w", et, err)
		}
		into.Stations = v
	case model.EntityUsers:
		var v []model.User
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s collection: %w", et, err)
		}
		into.Users = v
	case model.EntityTimeEntries:
		var v []model.TimeEntry
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s collection: %w", et, err)
		}
		into.Entries = v
	default:
		return fmt.Errorf("unknown entity type %q", et)
	}

	return nil
}

func marshalCollection(et model.EntityType, data model.Collections) ([]byte, error) {
	switch et {
	case model.EntityClients:
		return marshalSlice(data.Clients)
	case model.EntityProjects:
		return marshalSlice(data.Projects)
	case model.EntityWorkStations:
		return marshalSlice(data.Stations)
	case model.EntityUsers:
		return marshalSlice(data.Users)
	case model.EntityTimeEntries:
		return marshalSlice(data.Entries)
	default:
		return nil, fmt.Errorf("unknown entity type %q", et)
	}
}

// marshalSlice encodes a nil slice as [] so cache snapshots are always
// valid JSON arrays.
func marshalSlice[T any](v []T) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(v)
}
