package model

import "time"

// EntityType tags one of the synchronized entity collections. The values
// double as the remote API path segments and the local cache bucket names,
// so they match the collection names the server exposes.
type EntityType string

const (
	EntityTimeEntries  EntityType = "entries"
	EntityClients      EntityType = "clients"
	EntityProjects     EntityType = "affaires"
	EntityWorkStations EntityType = "postes"
	EntityUsers        EntityType = "users"
)

// AllEntityTypes returns every synchronized collection in reconciliation
// order. Reference data first so entry rendering can resolve names.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityClients,
		EntityProjects,
		EntityWorkStations,
		EntityUsers,
		EntityTimeEntries,
	}
}

// Client is a customer that hours are booked against.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Project is a unit of work belonging to exactly one client.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ClientID    string        `json:"clientId"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
}

// EffectiveStatus returns the project status, defaulting to active when
// the field was never set.
func (p Project) EffectiveStatus() ProjectStatus {
	if p.Status == "" {
		return ProjectActive
	}
	return p.Status
}

// WorkStation is a station or piece of equipment hours are booked on.
type WorkStation struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourlyRate,omitempty"`
	IsEquipment bool    `json:"isEquipment,omitempty"`
}

// User is an account known to the remote store. The password is carried
// opaquely; this module never interprets it beyond the login comparison.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// TimeEntry is a booked block of hours. The entry's client is always
// derived by following ProjectID to the project's ClientID; no client
// reference is stored on the entry itself, and a stray clientId field in
// a payload is dropped on decode.
type TimeEntry struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	WorkStationID string    `json:"workStationId"`
	Hours         float64   `json:"hours"`
	EnteredBy     string    `json:"enteredBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SessionUser identifies the logged-in account for a session. Admin
// accounts may manage reference data and other users' entries.
type SessionUser struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}
