package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
	"github.com/inovacc/worklog/internal/store"
)

// Authenticate verifies name and password against the users collection,
// preferring the remote store and falling back to the cached snapshot
// when the store is unreachable. This is a static credential check, not
// an authentication system: the admin role is granted to the bootstrap
// admin account only.
func Authenticate(ctx context.Context, api CollectionAPI, cache store.Cache, name, password string) (model.SessionUser, error) {
	var users []model.User

	raw, err := api.List(ctx, model.EntityUsers, gateway.ListOptions{BypassCache: true})
	switch {
	case err == nil:
		if uerr := json.Unmarshal(raw, &users); uerr != nil {
			return model.SessionUser{}, fmt.Errorf("decode users collection: %w", uerr)
		}
	case gateway.IsUnreachable(err):
		data, ok, cerr := cache.Snapshot(model.EntityUsers)
		if cerr != nil {
			return model.SessionUser{}, cerr
		}

		if !ok {
			return model.SessionUser{}, fmt.Errorf("offline with no cached users: %w", err)
		}

		if uerr := json.Unmarshal(data, &users); uerr != nil {
			return model.SessionUser{}, fmt.Errorf("decode cached users: %w", uerr)
		}
	default:
		return model.SessionUser{}, err
	}

	for _, u := range users {
		if u.Name == name && u.Password == password {
			return model.SessionUser{Name: name, Admin: name == adminUserName}, nil
		}
	}

	return model.SessionUser{}, ErrInvalidCredentials
}
