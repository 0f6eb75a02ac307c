package persist_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/tomz197/space-shooter/internal/persist"
	"github.com/tomz197/space-shooter/internal/persist/mocks"
)

var quiet = log.New(io.Discard)

func TestHighScore_UpdateWritesOnlyWhenHigher(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "highScore").Return("100", true, nil).Times(2)
	store.EXPECT().Set(gomock.Any(), "highScore", "150").Return(nil).Times(1)

	hs := persist.NewHighScore(store, quiet)
	require.Equal(t, 100, hs.Load(ctx))

	assert.False(t, hs.Update(ctx, 50))
	assert.False(t, hs.Update(ctx, 100))
	assert.True(t, hs.Update(ctx, 150))
	assert.Equal(t, 150, hs.Best())
}

func TestHighScore_LoadFailuresCountAsZero(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
		err   error
	}{
		{name: "missing"},
		{name: "backend error", err: errors.New("connection refused")},
		{name: "malformed", value: "lots", ok: true},
		{name: "negative", value: "-5", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			store.EXPECT().Get(gomock.Any(), "highScore").Return(tt.value, tt.ok, tt.err)

			hs := persist.NewHighScore(store, quiet)
			assert.Zero(t, hs.Load(context.Background()))
			assert.Zero(t, hs.Best())
		})
	}
}

func TestHighScore_FailedWriteKeepsBest(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "highScore").Return("", false, nil)
	store.EXPECT().Set(gomock.Any(), "highScore", "10").Return(errors.New("disk full"))

	hs := persist.NewHighScore(store, quiet)

	assert.True(t, hs.Update(context.Background(), 10))
	assert.Equal(t, 10, hs.Best())
}

func TestHighScore_StoredHigherValueWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	store := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "highScore").Return("100", true, nil),
		store.EXPECT().Get(gomock.Any(), "highScore").Return("300", true, nil),
	)

	hs := persist.NewHighScore(store, quiet)
	require.Equal(t, 100, hs.Load(ctx))

	assert.False(t, hs.Update(ctx, 150), "another writer already stored more")
	assert.Equal(t, 300, hs.Best())
	assert.False(t, hs.Update(ctx, 250), "known best is not rechecked")
}

func TestHighScore_SharedStoreNeverLowered(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.yaml")
	openFile := func() persist.Store {
		s, err := persist.OpenFileStore(path)
		require.NoError(t, err)
		return s
	}
	shared := persist.NewMemoryStore()

	tests := []struct {
		name   string
		stores func() (persist.Store, persist.Store)
	}{
		{"memory", func() (persist.Store, persist.Store) { return shared, shared }},
		{"file", func() (persist.Store, persist.Store) { return openFile(), openFile() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storeA, storeB := tt.stores()
			a := persist.NewHighScore(storeA, quiet)
			b := persist.NewHighScore(storeB, quiet)
			require.Zero(t, a.Load(ctx))
			require.Zero(t, b.Load(ctx))

			require.True(t, b.Update(ctx, 200))
			assert.False(t, a.Update(ctx, 150))
			assert.Equal(t, 200, a.Best())

			raw, ok, err := storeA.Get(ctx, "highScore")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "200", raw)

			assert.True(t, a.Update(ctx, 250))
			assert.False(t, b.Update(ctx, 220))
			assert.Equal(t, 250, b.Best())
		})
	}
}

func TestHighScore_WriteIfGreater(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := persist.NewMemoryStore()
		hs := persist.NewHighScore(store, quiet)

		best := 0
		scores := rapid.SliceOf(rapid.IntRange(0, 100_000)).Draw(t, "scores")
		for _, s := range scores {
			want := s > best
			require.Equal(t, want, hs.Update(ctx, s), "score %d over %d", s, best)
			if want {
				best = s
			}

			raw, ok, err := store.Get(ctx, "highScore")
			require.NoError(t, err)
			if best == 0 {
				require.False(t, ok)
				continue
			}
			require.True(t, ok)
			require.Equal(t, strconv.Itoa(best), raw)
		}
		require.Equal(t, best, hs.Best())
	})
}

func TestHighScore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()
	hs := persist.NewHighScore(store, quiet)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 20 {
				hs.Update(ctx, i*20+j)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 999, hs.Best())
	raw, _, _ := store.Get(ctx, "highScore")
	assert.Equal(t, "999", raw)
}

func TestHighScore_BestDoesNotWaitForStoreWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	release := make(chan struct{})
	writing := make(chan struct{})
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "highScore").Return("", false, nil).Times(2)
	store.EXPECT().Set(gomock.Any(), "highScore", "500").DoAndReturn(func(context.Context, string, string) error {
		close(writing)
		<-release
		return nil
	})

	hs := persist.NewHighScore(store, quiet)
	hs.Load(ctx)

	done := make(chan bool)
	go func() { done <- hs.Update(ctx, 500) }()
	<-writing

	got := make(chan int)
	go func() { got <- hs.Best() }()
	select {
	case best := <-got:
		assert.Zero(t, best, "the write has not finished yet")
	case <-time.After(time.Second):
		t.Fatal("Best blocked on the store write")
	}

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, 500, hs.Best())
}
