package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
	"github.com/inovacc/worklog/internal/store"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory remote collection service. It keeps real
// collections so creates, updates and deletes behave like the server:
// creates assign ids, updates patch-merge by id, deletes remove by id.
type fakeAPI struct {
	mu   sync.Mutex
	data map[model.EntityType][]map[string]any
	err  error         // when set, every call fails with it
	gate chan struct{} // when set, List blocks until the channel closes
	seq  int

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{data: make(map[model.EntityType][]map[string]any)}
}

func (f *fakeAPI) add(et model.EntityType, entity map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[et] = append(f.data[et], entity)
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func (f *fakeAPI) mutationCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.createCalls + f.updateCalls + f.deleteCalls
}

func (f *fakeAPI) List(ctx context.Context, et model.EntityType, opts gateway.ListOptions) ([]byte, error) {
	f.mu.Lock()
	f.listCalls++
	err := f.err
	gate := f.gate
	entities := append([]map[string]any(nil), f.data[et]...)
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	if entities == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(entities)
}

func (f *fakeAPI) Create(ctx context.Context, et model.EntityType, payload any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.err != nil {
		return nil, f.err
	}

	entity, err := toMap(payload)
	if err != nil {
		return nil, err
	}

	f.seq++
	entity["id"] = fmt.Sprintf("srv-%d", f.seq)
	f.data[et] = append(f.data[et], entity)

	return json.Marshal(entity)
}

func (f *fakeAPI) Update(ctx context.Context, et model.EntityType, id string, patch any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	if f.err != nil {
		return nil, f.err
	}

	fields, err := toMap(patch)
	if err != nil {
		return nil, err
	}

	for _, entity := range f.data[et] {
		if entity["id"] == id {
			for k, v := range fields {
				entity[k] = v
			}

			return json.Marshal(entity)
		}
	}

	return nil, &gateway.StatusError{Op: "update", Code: http.StatusNotFound}
}

func (f *fakeAPI) Delete(ctx context.Context, et model.EntityType, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls++
	if f.err != nil {
		return f.err
	}

	for i, entity := range f.data[et] {
		if entity["id"] == id {
			f.data[et] = append(f.data[et][:i], f.data[et][i+1:]...)
			return nil
		}
	}

	return &gateway.StatusError{Op: "delete", Code: http.StatusNotFound}
}

func toMap(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func netErr() error {
	return &gateway.NetworkError{Op: "list", URL: "http://remote", Err: errors.New("connection refused")}
}

// harness wires a session, fake remote and temp cache together.
type harness struct {
	session    *Session
	api        *fakeAPI
	cache      store.Cache
	reconciler *Reconciler
	mutator    *Mutator
}

func newHarness(t *testing.T, user model.SessionUser) *harness {
	t.Helper()

	cache, err := store.NewBolt(filepath.Join(t.TempDir(), "cache.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return newHarnessWithCache(user, cache)
}

func newHarnessWithCache(user model.SessionUser, cache store.Cache) *harness {
	session := NewSession(user)
	api := newFakeAPI()

	return &harness{
		session:    session,
		api:        api,
		cache:      cache,
		reconciler: NewReconciler(session, api, cache, nil),
		mutator:    NewMutator(session, api, cache, model.NewIDSource(), nil),
	}
}

func admin() model.SessionUser {
	return model.SessionUser{Name: "Admin", Admin: true}
}

func plainUser(name string) model.SessionUser {
	return model.SessionUser{Name: name}
}
