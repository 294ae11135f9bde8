package model

// SyncState is the externally observable state of the sync engine.
type SyncState string

const (
	// SyncSynced means the last contact with the remote store succeeded
	// and the local view matches it.
	SyncSynced SyncState = "synced"

	// SyncOffline means the remote store was unreachable and the local
	// view is running on cached or optimistically written data.
	SyncOffline SyncState = "offline"

	// SyncSaving means a reconciliation pass or mutation is in flight.
	SyncSaving SyncState = "saving"

	// SyncError means the last pass failed for a non-network reason,
	// such as a malformed response.
	SyncError SyncState = "error"
)

// Status pairs the sync state with a human-readable message. It is the
// only channel background failures are surfaced on.
type Status struct {
	State   SyncState `json:"state"`
	Message string    `json:"message"`
}
