package history_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore detects overlapping writes to the same run.
type countingStore struct {
	ports.RunStore
	active  atomic.Int32
	overlap atomic.Bool
}

func (s *countingStore) Save(ctx context.Context, run *domain.Run) error {
	if s.active.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.active.Add(-1)
	time.Sleep(5 * time.Millisecond)
	return s.RunStore.Save(ctx, run)
}

type fakeLocker struct {
	locked   []string
	unlocked int
	err      error
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, key)
	return func(context.Context) error {
		l.unlocked++
		return nil
	}, nil
}

func TestManager_Record(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mgr := history.NewManager(memory.NewStore(),
		history.WithClock(func() time.Time { return at }),
		history.WithIDGenerator(func() string { return "run-1" }),
	)
	ctx := context.Background()

	out := domain.Outcome{Input: "0", Result: domain.ResultAccepted, Halt: domain.HaltAccepted, Steps: 1}
	run, err := mgr.Record(ctx, "flipper", out)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, at, run.CreatedAt)

	loaded, err := mgr.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "flipper", loaded.Machine)
	assert.Equal(t, out, loaded.Outcome)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)

	require.NoError(t, mgr.Delete(ctx, "run-1"))
	_, err = mgr.Load(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestManager_RecordAssignsUniqueIDs(t *testing.T) {
	mgr := history.NewManager(memory.NewStore())
	ctx := context.Background()

	a, err := mgr.Record(ctx, "m", domain.Outcome{})
	require.NoError(t, err)
	b, err := mgr.Record(ctx, "m", domain.Outcome{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestManager_Recorder(t *testing.T) {
	mgr := history.NewManager(memory.NewStore())
	ctx := context.Background()

	hooks := mgr.Recorder("flipper")
	require.NotNil(t, hooks.OnHalt)
	hooks.OnHalt(ctx, &domain.HaltEvent{Outcome: domain.Outcome{Result: domain.ResultRejectedStuck}})

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	run, err := mgr.Load(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.ResultRejectedStuck, run.Outcome.Result)
}

func TestManager_SerializesWritesPerRun(t *testing.T) {
	store := &countingStore{RunStore: memory.NewStore()}
	mgr := history.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Save(ctx, &domain.Run{ID: "same"}))
		}()
	}
	wg.Wait()

	assert.False(t, store.overlap.Load(), "writes to one run must not overlap")
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &fakeLocker{}
	mgr := history.NewManager(memory.NewStore(), history.WithLocker(locker))
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, &domain.Run{ID: "r1"}))
	assert.Equal(t, []string{"r1"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)

	locker.err = errors.New("redis down")
	err := mgr.Save(ctx, &domain.Run{ID: "r2"})
	assert.ErrorIs(t, err, locker.err)
}
