package engine

import (
	"context"
	"testing"
	"time"

	"github.com/inovacc/worklog/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(h *harness, opts SchedulerOptions) *Scheduler {
	if opts.Interval == 0 {
		// Long enough that only explicit Tick calls run during a test.
		opts.Interval = time.Hour
	}

	return NewScheduler(h.reconciler, h.session, opts)
}

func (f *fakeAPI) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.listCalls
}

func TestScheduler_TickBeforeStartIsNoOp(t *testing.T) {
	h := newHarness(t, admin())
	sched := newTestScheduler(h, SchedulerOptions{})

	sched.Tick(context.Background())

	require.Zero(t, h.api.lists())
}

func TestScheduler_EditingSuppressesTick(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})

	sched := newTestScheduler(h, SchedulerOptions{Grace: 5 * time.Second})
	sched.Start()
	defer sched.Stop()

	h.session.SetEditing(true)
	sched.Tick(context.Background())

	require.Zero(t, h.api.lists(), "no collection may be touched while an edit is open")
	require.Empty(t, h.session.Collections().Clients)

	h.session.SetEditing(false)
	sched.Tick(context.Background())

	require.NotZero(t, h.api.lists())
	require.Len(t, h.session.Collections().Clients, 1)
}

func TestScheduler_GraceWindowAfterMutation(t *testing.T) {
	h := newHarness(t, admin())

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	h.session.now = func() time.Time { return now }

	// Book an entry while offline: the optimistic local write must not
	// be overwritten by a pass that races the remote confirmation.
	h.api.setErr(netErr())
	entry, err := h.mutator.CreateEntry(context.Background(), model.TimeEntry{
		ProjectID: "p1", WorkStationID: "w1", Hours: 3.5,
	})
	require.NoError(t, err)
	h.api.setErr(nil)

	sched := newTestScheduler(h, SchedulerOptions{Grace: 5 * time.Second})
	sched.Start()
	defer sched.Stop()

	sched.Tick(context.Background())
	require.Zero(t, h.api.lists(), "tick inside the grace window must skip the pass")

	_, ok := h.session.Collections().EntryByID(entry.ID)
	require.True(t, ok, "the just-written entry must survive the tick")

	// Past the grace window the pass runs again.
	now = base.Add(6 * time.Second)
	sched.Tick(context.Background())
	require.NotZero(t, h.api.lists())
}

func TestScheduler_TickAfterStopIsNoOp(t *testing.T) {
	h := newHarness(t, admin())
	h.api.add(model.EntityClients, map[string]any{"id": "c1", "name": "Acme"})

	sched := newTestScheduler(h, SchedulerOptions{})
	sched.Start()
	sched.Stop()

	sched.Tick(context.Background())

	require.Zero(t, h.api.lists())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	h := newHarness(t, admin())

	sched := newTestScheduler(h, SchedulerOptions{})
	sched.Start()
	sched.Stop()
	sched.Stop()
}

func TestScheduler_OverlappingPassesPrevented(t *testing.T) {
	h := newHarness(t, admin())
	gate := make(chan struct{})
	h.api.mu.Lock()
	h.api.gate = gate
	h.api.mu.Unlock()

	sched := newTestScheduler(h, SchedulerOptions{})
	sched.Start()
	defer sched.Stop()

	go sched.Tick(context.Background())

	require.Eventually(t, func() bool { return h.api.lists() == 1 },
		time.Second, 5*time.Millisecond, "first pass should be blocked inside its first fetch")

	// A second tick while the first pass is in flight must not start
	// another pass.
	sched.Tick(context.Background())
	require.Equal(t, 1, h.api.lists())

	close(gate)

	require.Eventually(t, func() bool { return h.api.lists() == len(model.AllEntityTypes()) },
		time.Second, 5*time.Millisecond)
}

func TestScheduler_PeriodicTicks(t *testing.T) {
	h := newHarness(t, admin())

	refreshed := make(chan struct{}, 16)
	sched := newTestScheduler(h, SchedulerOptions{
		Interval:  20 * time.Millisecond,
		OnRefresh: func() { refreshed <- struct{}{} },
	})

	sched.Start()
	defer sched.Stop()

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never completed a pass")
	}

	require.NotZero(t, h.api.lists())
	require.Equal(t, model.SyncSynced, h.session.Status().State)
}
