package engine

import (
	"context"
	"testing"

	"github.com/inovacc/worklog/internal/model"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_Success(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityUsers, map[string]any{"id": "u1", "name": "bob", "password": "pw"})

	user, err := Authenticate(context.Background(), h.api, h.cache, "bob", "pw")
	require.NoError(t, err)
	require.Equal(t, "bob", user.Name)
	require.False(t, user.Admin, "only the bootstrap admin account gets the admin role")
}

func TestAuthenticate_AdminRole(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityUsers, map[string]any{"id": "u1", "name": "Admin", "password": "secret"})

	user, err := Authenticate(context.Background(), h.api, h.cache, "Admin", "secret")
	require.NoError(t, err)
	require.True(t, user.Admin)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityUsers, map[string]any{"id": "u1", "name": "bob", "password": "pw"})

	_, err := Authenticate(context.Background(), h.api, h.cache, "bob", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(context.Background(), h.api, h.cache, "carol", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_OfflineFallsBackToCache(t *testing.T) {
	h := newHarness(t, admin())
	require.NoError(t, h.cache.PutSnapshot(model.EntityUsers, []byte(`[{"id":"u1","name":"bob","password":"pw"}]`)))
	h.api.setErr(netErr())

	user, err := Authenticate(context.Background(), h.api, h.cache, "bob", "pw")
	require.NoError(t, err)
	require.Equal(t, "bob", user.Name)
}

func TestAuthenticate_OfflineWithoutCacheFails(t *testing.T) {
	h := newHarness(t, admin())
	h.api.setErr(netErr())

	_, err := Authenticate(context.Background(), h.api, h.cache, "bob", "pw")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials, "an unreachable store is not a credential failure")
}
