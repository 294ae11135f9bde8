package store

import "github.com/inovacc/worklog/internal/model"

// Cache is the durable on-device mirror of the remote collections. Each
// snapshot is the complete serialized collection for one entity type;
// there are no partial writes. The cache survives process restart on the
// same device and is never shared across devices.
type Cache interface {
	// Snapshot returns the stored collection for the entity type. The
	// second result reports whether a snapshot exists.
	Snapshot(et model.EntityType) ([]byte, bool, error)

	// PutSnapshot replaces the stored collection for the entity type.
	PutSnapshot(et model.EntityType, data []byte) error

	// Session returns the persisted logged-in user, or nil when logged out.
	Session() (*model.SessionUser, error)

	// PutSession persists the logged-in user across restarts.
	PutSession(u model.SessionUser) error

	// ClearSession removes the persisted user on logout.
	ClearSession() error

	Close() error
}
