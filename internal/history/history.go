// Package history keeps the locally persisted list of solved problems:
// most recent first, de-duplicated by problem text and capped in size.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/solution"
)

const (
	// MaxItems is the maximum number of records kept.
	MaxItems = 50

	// StorageKey is the kv key holding the JSON-encoded list.
	StorageKey = "math_history"
)

// Item is one solved problem in the history.
type Item struct {
	ID         string                `json:"id"`
	Problem    string                `json:"problem"`
	Timestamp  int64                 `json:"timestamp"` // unix milliseconds
	IsFavorite bool                  `json:"isFavorite"`
	Solution   solution.MathSolution `json:"solution"`
}

// Time returns the record's last-solved time.
func (i Item) Time() time.Time {
	return time.UnixMilli(i.Timestamp)
}

// Store is the solution record store. It is safe for concurrent use; every
// mutation rewrites the full list to the backing kv.Store.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	items []Item

	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for degraded loads.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty Store persisting to backend. Call Load to read
// the persisted list.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted list and makes it current. A missing key, a read
// failure or undecodable content yields an empty list.
func (s *Store) Load(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("read history", zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("decode history, starting empty", zap.Error(err))
		return nil
	}

	s.items = normalize(items)
	return cloneItems(s.items)
}

// AddOrUpdate records a solved problem. An existing record with the same
// key is refreshed and moved to the front, keeping its id and favorite
// flag; otherwise a new record is inserted at the front. The list is then
// capped at MaxItems and persisted. A persistence error is returned but the
// in-memory list stays updated.
func (s *Store) AddOrUpdate(ctx context.Context, sol solution.MathSolution) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := solution.Key(sol.Problem)
	ts := s.now().UnixMilli()

	var item Item
	idx := s.indexOfKey(key)
	if idx >= 0 {
		item = s.items[idx]
		item.Timestamp = ts
		item.Solution = sol
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	} else {
		item = Item{
			ID:        s.newID(),
			Problem:   sol.Problem,
			Timestamp: ts,
			Solution:  sol,
		}
	}

	s.items = append([]Item{item}, s.items...)
	if len(s.items) > MaxItems {
		s.items = s.items[:MaxItems]
	}

	return item, s.persist(ctx)
}

// ToggleFavorite flips the favorite flag of the record with the given id.
// Unknown ids are a no-op and report found=false.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			return s.toggleAt(ctx, i)
		}
	}
	return Item{}, false, nil
}

// FavoriteForProblem toggles the favorite flag of the record whose key
// matches problem.
func (s *Store) FavoriteForProblem(ctx context.Context, problem string) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOfKey(solution.Key(problem)); idx >= 0 {
		return s.toggleAt(ctx, idx)
	}
	return Item{}, false, nil
}

func (s *Store) toggleAt(ctx context.Context, i int) (Item, bool, error) {
	s.items[i].IsFavorite = !s.items[i].IsFavorite
	return s.items[i], true, s.persist(ctx)
}

// Items returns a copy of the current list, most recent first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Clear removes all records, in memory and persisted.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// FilterFavorites returns the favorite records of list in their original
// order.
func FilterFavorites(list []Item) []Item {
	out := make([]Item, 0, len(list))
	for _, it := range list {
		if it.IsFavorite {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) indexOfKey(key string) int {
	for i, it := range s.items {
		if solution.Key(it.Problem) == key {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// normalize enforces the list invariants on data read from storage: one
// record per key (first occurrence wins) and at most MaxItems records.
func normalize(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, min(len(items), MaxItems))
	for _, it := range items {
		key := solution.Key(it.Problem)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
