package score

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_WriteIfGreater(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(5)

	best, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, best)

	written, err := m.WriteIfGreater(ctx, 3)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = m.WriteIfGreater(ctx, 5)
	require.NoError(t, err)
	assert.False(t, written, "equal score must not overwrite")

	written, err = m.WriteIfGreater(ctx, 8)
	require.NoError(t, err)
	assert.True(t, written)

	best, err = m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, best)
}

func TestMemory_RejectsNegative(t *testing.T) {
	_, err := NewMemory(0).WriteIfGreater(context.Background(), -1)
	assert.ErrorIs(t, err, ErrNegativeScore)
}

func TestMemory_ConcurrentWritesKeepMax(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			_, _ = m.WriteIfGreater(ctx, s)
		}(i)
	}
	wg.Wait()

	best, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, best)
}

func TestMemory_RunsSortedByScore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	now := time.Now()

	for _, s := range []int{2, 9, 4} {
		require.NoError(t, m.RecordRun(ctx, NewRun(s, time.Second, 60, "floor", now)))
	}

	runs := m.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, []int{9, 4, 2}, []int{runs[0].Score, runs[1].Score, runs[2].Score})
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
}
