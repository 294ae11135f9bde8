package engine

import (
	"context"
	"testing"

	"github.com/inovacc/worklog/internal/model"
	"github.com/stretchr/testify/require"
)

func TestReconciler_RemoteReplacesLocal(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})
	h.api.add(model.EntityProjects, map[string]any{"id": "p1", "name": "Gate", "clientId": "c1"})
	h.api.add(model.EntityTimeEntries, map[string]any{"id": "e1", "projectId": "p1", "workStationId": "w1", "hours": 2.0})

	require.NoError(t, h.reconciler.Run(context.Background()))

	data := h.session.Collections()
	require.Len(t, data.Clients, 1)
	require.Len(t, data.Projects, 1)
	require.Len(t, data.Entries, 1)
	require.Equal(t, "Acme", data.Clients[0].Name)
	require.Equal(t, model.SyncSynced, h.session.Status().State)
}

func TestReconciler_Idempotent(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})

	require.NoError(t, h.reconciler.Run(context.Background()))
	first := h.session.Collections()

	require.NoError(t, h.reconciler.Run(context.Background()))
	second := h.session.Collections()

	require.Equal(t, first, second)
}

func TestReconciler_EmptyRemoteIsLegitimate(t *testing.T) {
	// The cache holds data from a previous session; the remote store
	// genuinely has none. The empty remote collection must win, and
	// nothing may be pushed back up.
	h := newHarness(t, admin())
	require.NoError(t, h.cache.PutSnapshot(model.EntityClients, []byte(`[{"id":"c1","name":"Stale"}]`)))
	require.NoError(t, h.reconciler.SeedFromCache())
	require.Len(t, h.session.Collections().Clients, 1)

	require.NoError(t, h.reconciler.Run(context.Background()))

	require.Empty(t, h.session.Collections().Clients)
	require.Zero(t, h.api.mutationCalls(), "an empty remote collection must not trigger re-publishing")
	require.Equal(t, model.SyncSynced, h.session.Status().State)

	// The cache snapshot now reflects the empty truth too.
	data, ok, err := h.cache.Snapshot(model.EntityClients)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, string(data))
}

func TestReconciler_UnreachableFallsBackToCache(t *testing.T) {
	h := newHarness(t, admin())
	require.NoError(t, h.cache.PutSnapshot(model.EntityTimeEntries, []byte(`[{"id":"e1","projectId":"p1","workStationId":"w1","hours":3.5}]`)))
	h.api.setErr(netErr())

	require.NoError(t, h.reconciler.Run(context.Background()))

	data := h.session.Collections()
	require.Len(t, data.Entries, 1)
	require.Equal(t, "e1", data.Entries[0].ID)
	require.Equal(t, model.SyncOffline, h.session.Status().State)
}

func TestReconciler_UnreachableWithoutCacheIsEmpty(t *testing.T) {
	h := newHarness(t, admin())
	h.api.setErr(netErr())

	require.NoError(t, h.reconciler.Run(context.Background()))

	data := h.session.Collections()
	require.Empty(t, data.Clients)
	require.Empty(t, data.Entries)
	require.Equal(t, model.SyncOffline, h.session.Status().State)
}

func TestReconciler_EstablishedStateSurvivesLaterFailures(t *testing.T) {
	h := newHarness(t, admin())
	// Plant a stale snapshot that must NOT be restored once the
	// session has seen fresher remote data.
	require.NoError(t, h.cache.PutSnapshot(model.EntityClients, []byte(`[{"id":"old","name":"Stale"}]`)))
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Fresh"})

	require.NoError(t, h.reconciler.Run(context.Background()))
	require.Equal(t, "c1", h.session.Collections().Clients[0].ID)

	h.api.setErr(netErr())
	require.NoError(t, h.reconciler.Run(context.Background()))

	data := h.session.Collections()
	require.Len(t, data.Clients, 1)
	require.Equal(t, "c1", data.Clients[0].ID, "transient failure must keep the last established state")
	require.Equal(t, model.SyncOffline, h.session.Status().State)
}

func TestReconciler_ClosedSessionDiscardsResults(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})

	h.session.Close()

	err := h.reconciler.Run(context.Background())
	require.ErrorIs(t, err, ErrSessionClosed)
	require.Empty(t, h.session.Collections().Clients)
}

func TestReconciler_MalformedCollectionKeepsState(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})
	require.NoError(t, h.reconciler.Run(context.Background()))

	// The remote starts answering garbage for one collection.
	h.api.mu.Lock()
	h.api.data[model.EntityClients] = []map[string]any{{"id": map[string]any{"not": "a string"}}}
	h.api.mu.Unlock()

	require.NoError(t, h.reconciler.Run(context.Background()))

	require.Equal(t, "c1", h.session.Collections().Clients[0].ID)
	require.Equal(t, model.SyncError, h.session.Status().State)
}

func TestReconciler_SeedFromCache(t *testing.T) {
	h := newHarness(t, admin())
	require.NoError(t, h.cache.PutSnapshot(model.EntityClients, []byte(`[{"id":"c1","name":"Acme"}]`)))
	require.NoError(t, h.cache.PutSnapshot(model.EntityWorkStations, []byte(`[{"id":"w1","name":"Welding"}]`)))

	require.NoError(t, h.reconciler.SeedFromCache())

	data := h.session.Collections()
	require.Len(t, data.Clients, 1)
	require.Len(t, data.Stations, 1)
	require.Empty(t, data.Entries)
}
