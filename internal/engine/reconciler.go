package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
	"github.com/inovacc/worklog/internal/store"
)

// Reconciler produces the authoritative in-memory view of each
// collection and keeps the local cache consistent with it. The policy is
// remote-wins: a reachable remote collection unconditionally replaces
// local state, with no field-level merge. An empty remote collection is
// a legitimate state, never a signal to restore from cache.
type Reconciler struct {
	session *Session
	api     CollectionAPI
	cache   store.Cache
	logger  *slog.Logger
}

// NewReconciler creates a reconciler with the given dependencies.
func NewReconciler(session *Session, api CollectionAPI, cache store.Cache, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		session: session,
		api:     api,
		cache:   cache,
		logger:  logger,
	}
}

// SeedFromCache populates the in-memory collections from the cached
// snapshots so the session has data before the first remote contact.
// Missing snapshots leave the collection empty.
func (r *Reconciler) SeedFromCache() error {
	for _, et := range model.AllEntityTypes() {
		if err := r.restoreFromCache(et); err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return err
			}

			r.logger.Warn("cache seed failed", "collection", et, "error", err)
		}
	}

	return nil
}

// Run performs one reconciliation pass across all entity types. Remote
// failures never fail the pass; they are absorbed into the sync status.
// A non-nil error means the pass was abandoned (session closed or
// context canceled) and its remaining work skipped.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.session.Alive() {
		return ErrSessionClosed
	}

	r.session.setStatus(model.SyncSaving, "synchronizing")

	var unreachable, failed bool

	for _, et := range model.AllEntityTypes() {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := r.api.List(ctx, et, gateway.ListOptions{BypassCache: true})
		if err == nil {
			normalized, repErr := r.session.replaceCollection(et, raw)
			if repErr != nil {
				if errors.Is(repErr, ErrSessionClosed) {
					return repErr
				}

				failed = true
				r.logger.Warn("collection rejected", "collection", et, "error", repErr)

				continue
			}

			if err := r.cache.PutSnapshot(et, normalized); err != nil {
				r.logger.Warn("cache write failed", "collection", et, "error", err)
			}

			continue
		}

		if gateway.IsUnreachable(err) {
			unreachable = true
		} else {
			failed = true
		}

		r.logger.Debug("collection fetch failed", "collection", et, "error", err)

		// First failure of the session for this type: fall back to the
		// cached snapshot. Once the collection is established, failures
		// keep whatever state was last known.
		if !r.session.Established(et) {
			if err := r.restoreFromCache(et); err != nil {
				if errors.Is(err, ErrSessionClosed) {
					return err
				}

				r.logger.Warn("cache fallback failed", "collection", et, "error", err)
			}
		}
	}

	switch {
	case failed:
		r.session.setStatus(model.SyncError, "synchronization failed")
	case unreachable:
		r.session.setStatus(model.SyncOffline, "offline, using local data")
	default:
		r.session.setStatus(model.SyncSynced, "synchronized")
	}

	return nil
}

func (r *Reconciler) restoreFromCache(et model.EntityType) error {
	data, ok, err := r.cache.Snapshot(et)
	if err != nil {
		return err
	}

	if !ok {
		// No cached copy: the collection stays empty.
		return nil
	}

	_, err = r.session.replaceCollection(et, data)

	return err
}
