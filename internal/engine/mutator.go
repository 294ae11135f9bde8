package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
	"github.com/inovacc/worklog/internal/store"
)

// adminUserName is the account the remote store bootstraps and never
// deletes; it is the only name granted the admin role at login.
const adminUserName = "Admin"

// Mutator is the mutation pipeline: every create, update and delete goes
// through it. Creates and updates are optimistic: a failed remote write
// falls back to a local one so user input is never dropped. Deletes are
// strict: a failed remote delete is reported and not applied locally,
// because hiding a record the server still has risks silent data loss.
type Mutator struct {
	session *Session
	api     CollectionAPI
	cache   store.Cache
	ids     *model.IDSource
	logger  *slog.Logger

	now func() time.Time
}

// NewMutator creates a mutation pipeline bound to the session.
func NewMutator(session *Session, api CollectionAPI, cache store.Cache, ids *model.IDSource, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}

	if ids == nil {
		ids = model.NewIDSource()
	}

	return &Mutator{
		session: session,
		api:     api,
		cache:   cache,
		ids:     ids,
		logger:  logger,
		now:     time.Now,
	}
}

// EntryPatch is a partial update of a time entry. Nil fields are left
// unchanged. There is deliberately no client field: an entry's client is
// derived from its project.
type EntryPatch struct {
	ProjectID     *string  `json:"projectId,omitempty"`
	WorkStationID *string  `json:"workStationId,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
}

func (p EntryPatch) applyTo(e model.TimeEntry) model.TimeEntry {
	if p.ProjectID != nil {
		e.ProjectID = *p.ProjectID
	}
	if p.WorkStationID != nil {
		e.WorkStationID = *p.WorkStationID
	}
	if p.Hours != nil {
		e.Hours = *p.Hours
	}

	return e
}

// CreateEntry books a new time entry for the logged-in user. On remote
// failure the entry is kept locally with a synthesized id and timestamp.
func (m *Mutator) CreateEntry(ctx context.Context, draft model.TimeEntry) (model.TimeEntry, error) {
	if draft.ProjectID == "" || draft.WorkStationID == "" {
		return model.TimeEntry{}, fmt.Errorf("project and work station are required")
	}

	if draft.Hours <= 0 {
		return model.TimeEntry{}, fmt.Errorf("hours must be positive")
	}

	draft.ID = ""
	draft.EnteredBy = m.session.User().Name

	m.session.setStatus(model.SyncSaving, "saving entry")

	var stored model.TimeEntry
	err := m.tryCreate(ctx, model.EntityTimeEntries, draft, &stored)
	if err != nil {
		m.logger.Warn("remote create failed, keeping entry locally", "error", err)

		stored = draft
		stored.ID = m.ids.Next()
		stored.CreatedAt = m.now()
	}

	if cerr := m.commit(func(c *model.Collections) {
		c.Entries = append(c.Entries, stored)
	}, model.EntityTimeEntries); cerr != nil {
		return model.TimeEntry{}, cerr
	}

	if err != nil {
		m.session.setStatus(model.SyncOffline, "entry saved locally")
	} else {
		m.session.setStatus(model.SyncSynced, "entry saved")
	}

	return stored, nil
}

// UpdateEntry patches an existing entry. Non-admin callers may only
// touch entries they entered themselves.
func (m *Mutator) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (model.TimeEntry, error) {
	current, ok := m.session.Collections().EntryByID(id)
	if !ok {
		return model.TimeEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}

	if err := m.authorizeEntry(current); err != nil {
		return model.TimeEntry{}, err
	}

	m.session.setStatus(model.SyncSaving, "saving entry")

	var stored model.TimeEntry
	raw, err := m.api.Update(ctx, model.EntityTimeEntries, id, patch)
	if err == nil {
		err = json.Unmarshal(raw, &stored)
	}
	if err != nil {
		m.logger.Warn("remote update failed, patching entry locally", "entry", id, "error", err)
		stored = patch.applyTo(current)
	}

	if cerr := m.commit(func(c *model.Collections) {
		for i := range c.Entries {
			if c.Entries[i].ID == id {
				c.Entries[i] = stored
				break
			}
		}
	}, model.EntityTimeEntries); cerr != nil {
		return model.TimeEntry{}, cerr
	}

	if err != nil {
		m.session.setStatus(model.SyncOffline, "entry updated locally")
	} else {
		m.session.setStatus(model.SyncSynced, "entry updated")
	}

	return stored, nil
}

// DeleteEntry removes an entry. A failed remote delete propagates to
// the caller and leaves local state untouched.
func (m *Mutator) DeleteEntry(ctx context.Context, id string) error {
	current, ok := m.session.Collections().EntryByID(id)
	if !ok {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}

	if err := m.authorizeEntry(current); err != nil {
		return err
	}

	if err := m.remoteDelete(ctx, model.EntityTimeEntries, id); err != nil {
		return err
	}

	if err := m.commit(func(c *model.Collections) {
		c.Entries = removeByID(c.Entries, func(e model.TimeEntry) string { return e.ID }, id)
	}, model.EntityTimeEntries); err != nil {
		return err
	}

	m.session.setStatus(model.SyncSynced, "entry deleted")

	return nil
}

// CreateClient adds a client. Admin only.
func (m *Mutator) CreateClient(ctx context.Context, name string) (model.Client, error) {
	if err := m.requireAdmin(); err != nil {
		return model.Client{}, err
	}

	if name == "" {
		return model.Client{}, fmt.Errorf("client name is required")
	}

	m.session.setStatus(model.SyncSaving, "saving client")

	draft := model.Client{Name: name}

	var stored model.Client
	err := m.tryCreate(ctx, model.EntityClients, draft, &stored)
	if err != nil {
		m.logger.Warn("remote create failed, keeping client locally", "error", err)

		stored = draft
		stored.ID = m.ids.Next()
	}

	if cerr := m.commit(func(c *model.Collections) {
		c.Clients = append(c.Clients, stored)
	}, model.EntityClients); cerr != nil {
		return model.Client{}, cerr
	}

	m.finishWrite(err, "client saved", "client saved locally")

	return stored, nil
}

// DeleteClient removes a client and cascades to its projects and their
// time entries in the same logical operation. Admin only.
func (m *Mutator) DeleteClient(ctx context.Context, id string) error {
	if err := m.requireAdmin(); err != nil {
		return err
	}

	if _, ok := m.session.Collections().ClientByID(id); !ok {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}

	if err := m.remoteDelete(ctx, model.EntityClients, id); err != nil {
		return err
	}

	if err := m.commit(func(c *model.Collections) {
		doomed := make(map[string]bool)
		for _, p := range c.Projects {
			if p.ClientID == id {
				doomed[p.ID] = true
			}
		}

		c.Clients = removeByID(c.Clients, func(cl model.Client) string { return cl.ID }, id)

		kept := c.Projects[:0]
		for _, p := range c.Projects {
			if !doomed[p.ID] {
				kept = append(kept, p)
			}
		}
		c.Projects = kept

		keptEntries := c.Entries[:0]
		for _, e := range c.Entries {
			if !doomed[e.ProjectID] {
				keptEntries = append(keptEntries, e)
			}
		}
		c.Entries = keptEntries
	}, model.EntityClients, model.EntityProjects, model.EntityTimeEntries); err != nil {
		return err
	}

	m.session.setStatus(model.SyncSynced, "client deleted")

	return nil
}

// CreateProject adds a project under a client. Admin only.
func (m *Mutator) CreateProject(ctx context.Context, draft model.Project) (model.Project, error) {
	if err := m.requireAdmin(); err != nil {
		return model.Project{}, err
	}

	if draft.Name == "" || draft.ClientID == "" {
		return model.Project{}, fmt.Errorf("project name and client are required")
	}

	draft.ID = ""
	if draft.Status == "" {
		draft.Status = model.ProjectActive
	}

	m.session.setStatus(model.SyncSaving, "saving project")

	var stored model.Project
	err := m.tryCreate(ctx, model.EntityProjects, draft, &stored)
	if err != nil {
		m.logger.Warn("remote create failed, keeping project locally", "error", err)

		stored = draft
		stored.ID = m.ids.Next()
	}

	if cerr := m.commit(func(c *model.Collections) {
		c.Projects = append(c.Projects, stored)
	}, model.EntityProjects); cerr != nil {
		return model.Project{}, cerr
	}

	m.finishWrite(err, "project saved", "project saved locally")

	return stored, nil
}

// UpdateProjectStatus moves a project through its lifecycle. Admin only.
func (m *Mutator) UpdateProjectStatus(ctx context.Context, id string, status model.ProjectStatus) (model.Project, error) {
	if err := m.requireAdmin(); err != nil {
		return model.Project{}, err
	}

	switch status {
	case model.ProjectActive, model.ProjectCompleted, model.ProjectArchived:
	default:
		return model.Project{}, fmt.Errorf("invalid project status %q", status)
	}

	current, ok := m.session.Collections().ProjectByID(id)
	if !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	m.session.setStatus(model.SyncSaving, "saving project")

	patch := struct {
		Status model.ProjectStatus `json:"status"`
	}{Status: status}

	var stored model.Project
	raw, err := m.api.Update(ctx, model.EntityProjects, id, patch)
	if err == nil {
		err = json.Unmarshal(raw, &stored)
	}
	if err != nil {
		m.logger.Warn("remote update failed, patching project locally", "project", id, "error", err)
		stored = current
		stored.Status = status
	}

	if cerr := m.commit(func(c *model.Collections) {
		for i := range c.Projects {
			if c.Projects[i].ID == id {
				c.Projects[i] = stored
				break
			}
		}
	}, model.EntityProjects); cerr != nil {
		return model.Project{}, cerr
	}

	m.finishWrite(err, "project updated", "project updated locally")

	return stored, nil
}

// DeleteProject removes a project and cascades to every time entry
// booked on it. Admin only.
func (m *Mutator) DeleteProject(ctx context.Context, id string) error {
	if err := m.requireAdmin(); err != nil {
		return err
	}

	if _, ok := m.session.Collections().ProjectByID(id); !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	if err := m.remoteDelete(ctx, model.EntityProjects, id); err != nil {
		return err
	}

	if err := m.commit(func(c *model.Collections) {
		c.Projects = removeByID(c.Projects, func(p model.Project) string { return p.ID }, id)

		kept := c.Entries[:0]
		for _, e := range c.Entries {
			if e.ProjectID != id {
				kept = append(kept, e)
			}
		}
		c.Entries = kept
	}, model.EntityProjects, model.EntityTimeEntries); err != nil {
		return err
	}

	m.session.setStatus(model.SyncSynced, "project deleted")

	return nil
}

// CreateStation adds a work station. Admin only.
func (m *Mutator) CreateStation(ctx context.Context, draft model.WorkStation) (model.WorkStation, error) {
	if err := m.requireAdmin(); err != nil {
		return model.WorkStation{}, err
	}

	if draft.Name == "" {
		return model.WorkStation{}, fmt.Errorf("station name is required")
	}

	draft.ID = ""

	m.session.setStatus(model.SyncSaving, "saving station")

	var stored model.WorkStation
	err := m.tryCreate(ctx, model.EntityWorkStations, draft, &stored)
	if err != nil {
		m.logger.Warn("remote create failed, keeping station locally", "error", err)

		stored = draft
		stored.ID = m.ids.Next()
	}

	if cerr := m.commit(func(c *model.Collections) {
		c.Stations = append(c.Stations, stored)
	}, model.EntityWorkStations); cerr != nil {
		return model.WorkStation{}, cerr
	}

	m.finishWrite(err, "station saved", "station saved locally")

	return stored, nil
}

// UpdateStationRate changes a station's hourly rate. Admin only.
func (m *Mutator) UpdateStationRate(ctx context.Context, id string, rate float64) (model.WorkStation, error) {
	if err := m.requireAdmin(); err != nil {
		return model.WorkStation{}, err
	}

	if rate < 0 {
		return model.WorkStation{}, fmt.Errorf("hourly rate must not be negative")
	}

	current, ok := m.session.Collections().StationByID(id)
	if !ok {
		return model.WorkStation{}, fmt.Errorf("station %s: %w", id, ErrNotFound)
	}

	m.session.setStatus(model.SyncSaving, "saving station")

	patch := struct {
		HourlyRate float64 `json:"hourlyRate"`
	}{HourlyRate: rate}

	var stored model.WorkStation
	raw, err := m.api.Update(ctx, model.EntityWorkStations, id, patch)
	if err == nil {
		err = json.Unmarshal(raw, &stored)
	}
	if err != nil {
		m.logger.Warn("remote update failed, patching station locally", "station", id, "error", err)
		stored = current
		stored.HourlyRate = rate
	}

	if cerr := m.commit(func(c *model.Collections) {
		for i := range c.Stations {
			if c.Stations[i].ID == id {
				c.Stations[i] = stored
				break
			}
		}
	}, model.EntityWorkStations); cerr != nil {
		return model.WorkStation{}, cerr
	}

	m.finishWrite(err, "station updated", "station updated locally")

	return stored, nil
}

// DeleteStation removes a work station. Admin only.
func (m *Mutator) DeleteStation(ctx context.Context, id string) error {
	if err := m.requireAdmin(); err != nil {
		return err
	}

	if _, ok := m.session.Collections().StationByID(id); !ok {
		return fmt.Errorf("station %s: %w", id, ErrNotFound)
	}

	if err := m.remoteDelete(ctx, model.EntityWorkStations, id); err != nil {
		return err
	}

	if err := m.commit(func(c *model.Collections) {
		c.Stations = removeByID(c.Stations, func(s model.WorkStation) string { return s.ID }, id)
	}, model.EntityWorkStations); err != nil {
		return err
	}

	m.session.setStatus(model.SyncSynced, "station deleted")

	return nil
}

// CreateUser adds a user account. Admin only.
func (m *Mutator) CreateUser(ctx context.Context, draft model.User) (model.User, error) {
	if err := m.requireAdmin(); err != nil {
		return model.User{}, err
	}

	if draft.Name == "" || draft.Password == "" {
		return model.User{}, fmt.Errorf("user name and password are required")
	}

	draft.ID = ""

	m.session.setStatus(model.SyncSaving, "saving user")

	var stored model.User
	err := m.tryCreate(ctx, model.EntityUsers, draft, &stored)
	if err != nil {
		m.logger.Warn("remote create failed, keeping user locally", "error", err)

		stored = draft
		stored.ID = m.ids.Next()
	}

	if cerr := m.commit(func(c *model.Collections) {
		c.Users = append(c.Users, stored)
	}, model.EntityUsers); cerr != nil {
		return model.User{}, cerr
	}

	m.finishWrite(err, "user saved", "user saved locally")

	return stored, nil
}

// DeleteUser removes a user account. Admin only. The bootstrap admin
// account cannot be removed.
func (m *Mutator) DeleteUser(ctx context.Context, id string) error {
	if err := m.requireAdmin(); err != nil {
		return err
	}

	current, ok := func() (model.User, bool) {
		for _, u := range m.session.Collections().Users {
			if u.ID == id {
				return u, true
			}
		}
		return model.User{}, false
	}()
	if !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	if current.Name == adminUserName {
		return fmt.Errorf("the %s account cannot be deleted: %w", adminUserName, ErrUnauthorized)
	}

	if err := m.remoteDelete(ctx, model.EntityUsers, id); err != nil {
		return err
	}

	if err := m.commit(func(c *model.Collections) {
		c.Users = removeByID(c.Users, func(u model.User) string { return u.ID }, id)
	}, model.EntityUsers); err != nil {
		return err
	}

	m.session.setStatus(model.SyncSynced, "user deleted")

	return nil
}

func (m *Mutator) authorizeEntry(e model.TimeEntry) error {
	user := m.session.User()
	if user.Admin || e.EnteredBy == user.Name {
		return nil
	}

	return fmt.Errorf("entry belongs to %s: %w", e.EnteredBy, ErrUnauthorized)
}

func (m *Mutator) requireAdmin() error {
	if m.session.User().Admin {
		return nil
	}

	return fmt.Errorf("administrator role required: %w", ErrUnauthorized)
}

// tryCreate attempts remote creation and decodes the stored entity,
// which may carry a different id than any local placeholder, into out.
func (m *Mutator) tryCreate(ctx context.Context, et model.EntityType, payload, out any) error {
	raw, err := m.api.Create(ctx, et, payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, out)
}

// remoteDelete performs the strict remote delete. Any failure is
// surfaced to the caller and reflected in the sync status; local state
// is left untouched so it cannot diverge from the authoritative store.
func (m *Mutator) remoteDelete(ctx context.Context, et model.EntityType, id string) error {
	m.session.setStatus(model.SyncSaving, "deleting")

	if err := m.api.Delete(ctx, et, id); err != nil {
		if gateway.IsUnreachable(err) {
			m.session.setStatus(model.SyncOffline, "delete not applied")
		} else {
			m.session.setStatus(model.SyncError, "delete not applied")
		}

		return fmt.Errorf("delete %s %s not applied: %w", et, id, err)
	}

	return nil
}

// commit applies a local mutation and writes the affected snapshots
// through to the cache.
func (m *Mutator) commit(fn func(*model.Collections), types ...model.EntityType) error {
	snapshots, err := m.session.mutate(fn, types...)
	if err != nil {
		return err
	}

	for et, data := range snapshots {
		if err := m.cache.PutSnapshot(et, data); err != nil {
			m.logger.Warn("cache write failed", "collection", et, "error", err)
		}
	}

	return nil
}

func (m *Mutator) finishWrite(remoteErr error, okMsg, localMsg string) {
	if remoteErr != nil {
		m.session.setStatus(model.SyncOffline, localMsg)
	} else {
		m.session.setStatus(model.SyncSynced, okMsg)
	}
}

func removeByID[T any](items []T, id func(T) string, target string) []T {
	kept := items[:0]
	for _, it := range items {
		if id(it) != target {
			kept = append(kept, it)
		}
	}

	return kept
}
