package history

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/solution"
)

// fakeClock advances one second per call.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T, backend kv.Store) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	n := 0
	s := NewStore(backend,
		WithClock(clock.Now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	return s, clock
}

func sol(problem, answer string) solution.MathSolution {
	return solution.MathSolution{
		Problem:     problem,
		Steps:       []string{"step"},
		FinalAnswer: answer,
		Category:    "Algebra",
	}
}

func problems(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Problem
	}
	return out
}

func TestAddOrUpdate_NewItemAtFront(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	first, err := s.AddOrUpdate(ctx, sol("1+1", "2"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	assert.False(t, first.IsFavorite)

	_, err = s.AddOrUpdate(ctx, sol("2+2", "4"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2+2", "1+1"}, problems(s.Items()))
}

func TestAddOrUpdate_ExistingMovesToFront(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	for _, p := range []string{"a", "b", "c", "d"} {
		_, err := s.AddOrUpdate(ctx, sol(p, "x"))
		require.NoError(t, err)
	}
	// Order now: d c b a
	before, ok := s.Get("id-2") // "b"
	require.True(t, ok)
	_, _, err := s.ToggleFavorite(ctx, before.ID)
	require.NoError(t, err)

	updated, err := s.AddOrUpdate(ctx, sol("  b \n", "new"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "d", "c", "a"}, problems(s.Items()))
	assert.Equal(t, before.ID, updated.ID)
	assert.Equal(t, "b", updated.Problem, "original problem text is kept")
	assert.True(t, updated.IsFavorite, "favorite flag survives an update")
	assert.Equal(t, "new", updated.Solution.FinalAnswer)
	assert.Greater(t, updated.Timestamp, before.Timestamp)
}

func TestAddOrUpdate_CapsAtMax(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	for i := 0; i < MaxItems+5; i++ {
		_, err := s.AddOrUpdate(ctx, sol(fmt.Sprintf("p%d", i), "x"))
		require.NoError(t, err)
	}

	items := s.Items()
	require.Len(t, items, MaxItems)
	assert.Equal(t, fmt.Sprintf("p%d", MaxItems+4), items[0].Problem)
	assert.Equal(t, "p5", items[MaxItems-1].Problem, "oldest items are dropped")
}

func TestAddOrUpdate_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		p := fmt.Sprintf("%sq%d%s", strings.Repeat(" ", rng.IntN(2)), rng.IntN(80), strings.Repeat(" ", rng.IntN(2)))
		_, err := s.AddOrUpdate(ctx, sol(p, "x"))
		require.NoError(t, err)

		items := s.Items()
		require.LessOrEqual(t, len(items), MaxItems)
		seen := map[string]bool{}
		for _, it := range items {
			key := solution.Key(it.Problem)
			require.False(t, seen[key], "duplicate key %q", key)
			seen[key] = true
		}
		require.Equal(t, solution.Key(p), solution.Key(items[0].Problem))
	}
}

func TestToggleFavorite(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_, err := s.AddOrUpdate(ctx, sol("a", "1"))
	require.NoError(t, err)
	_, err = s.AddOrUpdate(ctx, sol("b", "2"))
	require.NoError(t, err)
	orig := s.Items()

	it, found, err := s.ToggleFavorite(ctx, "id-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, it.IsFavorite)
	assert.Equal(t, problems(orig), problems(s.Items()), "order unchanged")

	_, _, err = s.ToggleFavorite(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, orig, s.Items(), "double toggle restores the original")

	_, found, err = s.ToggleFavorite(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFavoriteForProblem(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_, err := s.AddOrUpdate(ctx, sol("2x + 5 = 15", "x = 5"))
	require.NoError(t, err)

	it, found, err := s.FavoriteForProblem(ctx, " 2x + 5 = 15 ")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, it.IsFavorite)

	_, found, err = s.FavoriteForProblem(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFilterFavorites(t *testing.T) {
	list := []Item{
		{ID: "1", IsFavorite: true},
		{ID: "2"},
		{ID: "3", IsFavorite: true},
		{ID: "4"},
	}
	got := FilterFavorites(list)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, FilterFavorites(nil))
}

func TestLoad_RoundTrip(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend)
	ctx := context.Background()

	_, err := s.AddOrUpdate(ctx, sol("a", "1"))
	require.NoError(t, err)
	_, err = s.AddOrUpdate(ctx, sol("b", "2"))
	require.NoError(t, err)
	_, _, err = s.ToggleFavorite(ctx, "id-1")
	require.NoError(t, err)

	reloaded := NewStore(backend)
	items := reloaded.Load(ctx)
	assert.Equal(t, s.Items(), items)
}

func TestLoad_PersistedFormat(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, StorageKey,
		`[{"id":"abc","problem":"1+1","timestamp":1767225600000,"isFavorite":true,"solution":{"problem":"1+1","steps":["add"],"finalAnswer":"2","category":"Arithmetic"}}]`))

	items := NewStore(backend).Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "abc", items[0].ID)
	assert.True(t, items[0].IsFavorite)
	assert.Equal(t, "2", items[0].Solution.FinalAnswer)
	assert.Equal(t, int64(1767225600000), items[0].Time().UnixMilli())
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, NewStore(kv.NewMemory()).Load(ctx))
	})

	t.Run("corrupt", func(t *testing.T) {
		backend := kv.NewMemory()
		require.NoError(t, backend.Set(ctx, StorageKey, "{not json"))
		s := NewStore(backend)
		assert.Empty(t, s.Load(ctx))
		assert.Empty(t, s.Items())
	})

	t.Run("read error", func(t *testing.T) {
		assert.Empty(t, NewStore(&failingKV{}).Load(ctx))
	})
}

func TestLoad_NormalizesDuplicatesAndCap(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	var parts []string
	parts = append(parts, `{"id":"dup","problem":" p0 "}`)
	for i := 0; i < MaxItems+10; i++ {
		parts = append(parts, fmt.Sprintf(`{"id":"i%d","problem":"p%d"}`, i, i))
	}
	require.NoError(t, backend.Set(ctx, StorageKey, "["+strings.Join(parts, ",")+"]"))

	items := NewStore(backend).Load(ctx)
	require.Len(t, items, MaxItems)
	assert.Equal(t, "dup", items[0].ID, "first occurrence wins")
	assert.Equal(t, "i1", items[1].ID)
}

func TestAddOrUpdate_PersistFailure(t *testing.T) {
	s, _ := newTestStore(t, &failingKV{})

	_, err := s.AddOrUpdate(context.Background(), sol("a", "1"))
	require.Error(t, err)
	assert.Len(t, s.Items(), 1, "in-memory list is still updated")
}

func TestClear(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend)
	ctx := context.Background()

	_, err := s.AddOrUpdate(ctx, sol("a", "1"))
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	_, ok, _ := backend.Get(ctx, StorageKey)
	assert.False(t, ok)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk error")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("disk error") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("disk error") }
