package session_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/pkg/adapters/memory"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	return s.Store.Save(ctx, sessionID, snap)
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	return s.Store.Load(ctx, sessionID)
}

func TestManager_CreateAndPress(t *testing.T) {
	mgr := session.NewManager(memory.NewStore(), session.WithIDGenerator(func() string { return "fixed" }))
	ctx := context.Background()

	view, err := mgr.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fixed", view.SessionID)
	assert.Equal(t, "0", view.Display)
	assert.Equal(t, domain.KindInitial, view.Kind)

	view, err = mgr.Press(ctx, "fixed", "2", "+", "3")
	require.NoError(t, err)
	assert.Equal(t, "3", view.Display)
	assert.Equal(t, domain.KindEnteringSecond, view.Kind)

	// State survives between calls.
	view, err = mgr.Press(ctx, "fixed", "=")
	require.NoError(t, err)
	assert.Equal(t, "5", view.Display)

	view, err = mgr.Load(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "5", view.Display)
}

func TestManager_ErrorAndReset(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	view, err := mgr.LoadOrStart(ctx, "s1")
	require.NoError(t, err)

	view, err = mgr.Press(ctx, view.SessionID, "2", "%")
	require.NoError(t, err)
	assert.True(t, view.Error)
	assert.Equal(t, domain.ErrorSentinel, view.Display)

	view, err = mgr.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, view.Error)
	assert.Equal(t, "0", view.Display)
}

func TestManager_UnknownSession(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Press(ctx, "missing", "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = mgr.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_CorruptSnapshot(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "bad", domain.Snapshot{Kind: "bogus"}))

	mgr := session.NewManager(store)
	_, err := mgr.Press(ctx, "bad", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
}

func TestManager_LoadOrStartKeepsExisting(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.LoadOrStart(ctx, "keep")
	require.NoError(t, err)
	_, err = mgr.Press(ctx, "keep", "7")
	require.NoError(t, err)

	view, err := mgr.LoadOrStart(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "7", view.Display)
}

func TestManager_SerializesConcurrentPresses(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, err := mgr.LoadOrStart(ctx, id)
	require.NoError(t, err)
	_, err = mgr.Press(ctx, id, "0", "+")
	require.NoError(t, err)

	// Each worker adds 1 and folds it into the running total. Lost updates
	// would leave the total short.
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Press(ctx, id, "1", "+")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := mgr.Press(ctx, id, "0", "=")
	require.NoError(t, err)
	assert.Equal(t, "20", view.Display)
}

func TestManager_CalculatorHooks(t *testing.T) {
	var mu sync.Mutex
	var errorsSeen int
	hooks := domain.LifecycleHooks{
		OnError: func(*domain.ErrorEvent) {
			mu.Lock()
			errorsSeen++
			mu.Unlock()
		},
	}

	mgr := session.NewManager(memory.NewStore(), session.WithCalculatorOptions(keypad.WithLifecycleHooks(hooks)))
	ctx := context.Background()
	_, err := mgr.LoadOrStart(ctx, "h")
	require.NoError(t, err)

	_, err = mgr.Press(ctx, "h", "1", "%")
	require.NoError(t, err)
	assert.Equal(t, 1, errorsSeen)
}

func TestManager_RebuildingCalculatorIsNotATransition(t *testing.T) {
	var actions []domain.Action
	hooks := domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { actions = append(actions, e.Action) },
	}

	mgr := session.NewManager(memory.NewStore(), session.WithCalculatorOptions(keypad.WithLifecycleHooks(hooks)))
	ctx := context.Background()
	_, err := mgr.LoadOrStart(ctx, "quiet")
	require.NoError(t, err)

	_, err = mgr.Press(ctx, "quiet", "2", "+")
	require.NoError(t, err)
	_, err = mgr.Load(ctx, "quiet")
	require.NoError(t, err)
	_, err = mgr.Reset(ctx, "quiet")
	require.NoError(t, err)

	assert.Equal(t, []domain.Action{domain.ActionDigit, domain.ActionOperator, domain.ActionReset}, actions)
}

func TestManager_ObserversSeeCommitOrder(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "observed"

	_, err := mgr.LoadOrStart(ctx, id)
	require.NoError(t, err)
	_, err = mgr.Press(ctx, id, "0", "+")
	require.NoError(t, err)

	var mu sync.Mutex
	var displays []string
	mgr.Observe(func(v session.View) {
		mu.Lock()
		displays = append(displays, v.Display)
		mu.Unlock()
	})

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Press(ctx, id, "1", "+")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := make([]string, workers)
	for i := range want {
		want[i] = strconv.Itoa(i + 1)
	}
	assert.Equal(t, want, displays)
}

func TestManager_WithObserverSkipsFailedActions(t *testing.T) {
	var seen []string
	mgr := session.NewManager(memory.NewStore(), session.WithObserver(func(v session.View) {
		seen = append(seen, v.SessionID)
	}))
	ctx := context.Background()

	_, err := mgr.Press(ctx, "missing", "1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, seen)

	_, err = mgr.LoadOrStart(ctx, "s1")
	require.NoError(t, err)
	_, err = mgr.Press(ctx, "s1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, seen)
}
