// ABOUTME: In-memory version store with temporal queries
// ABOUTME: Keeps deep copies of trees so later edits never leak into history

package version

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/nainya/proptree/pkg/property"
)

// Store keeps an ordered history of tree snapshots. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	versions []*Version // ordered by CreatedAt, then insertion
	byID     map[string]*Version
	seq      int
	now      func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now as the source of CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty history
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID: make(map[string]*Version),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a deep copy of tree as a new version
func (s *Store) Create(tree *property.PropertyTree, opts CreateOptions) (*Version, error) {
	if tree == nil {
		return nil, ErrNilTree
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := opts.ID
	if id == "" {
		id = s.nextID()
	}
	if _, exists := s.byID[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	at := opts.At
	if at.IsZero() {
		at = s.now()
	}

	v := &Version{
		ID:          id,
		CreatedAt:   at,
		CreatedBy:   opts.CreatedBy,
		Description: opts.Description,
		Tags:        append([]string(nil), opts.Tags...),
		Metadata:    copyMetadata(opts.Metadata),
		tree:        tree.Copy(),
	}

	// Insert after every version created at or before v
	pos := sort.Search(len(s.versions), func(i int) bool {
		return s.versions[i].CreatedAt.After(at)
	})
	s.versions = append(s.versions, nil)
	copy(s.versions[pos+1:], s.versions[pos:])
	s.versions[pos] = v
	s.byID[id] = v

	return v, nil
}

func (s *Store) nextID() string {
	for {
		s.seq++
		id := "v" + strconv.Itoa(s.seq)
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

// Get retrieves a specific version
func (s *Store) Get(id string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Latest returns the most recent version
func (s *Store) Latest() (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.versions) == 0 {
		return nil, fmt.Errorf("%w: history is empty", ErrNotFound)
	}
	return s.versions[len(s.versions)-1], nil
}

// AsOf returns the version that was current at t
func (s *Store) AsOf(t time.Time) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos := sort.Search(len(s.versions), func(i int) bool {
		return s.versions[i].CreatedAt.After(t)
	})
	if pos == 0 {
		return nil, fmt.Errorf("%w: no version as of %s", ErrNotFound, t.Format(time.RFC3339))
	}
	return s.versions[pos-1], nil
}

// ByTag returns the most recent version carrying tag
func (s *Store) ByTag(tag string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.versions) - 1; i >= 0; i-- {
		if s.versions[i].HasTag(tag) {
			return s.versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no version tagged %s", ErrNotFound, tag)
}

// List returns versions ordered by creation time, oldest first. A limit of
// zero or less returns all of them.
func (s *Store) List(limit int) []*Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.versions)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Version, n)
	copy(out, s.versions[:n])
	return out
}

// Len returns the number of stored versions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions)
}

// Diff compares two stored versions; fromID is treated as the old side.
// The returned properties belong to the snapshots and must not be edited.
func (s *Store) Diff(fromID, toID string) (property.Difference, error) {
	from, err := s.Get(fromID)
	if err != nil {
		return property.Difference{}, err
	}
	to, err := s.Get(toID)
	if err != nil {
		return property.Difference{}, err
	}
	return from.tree.Diff(to.tree), nil
}

// Restore returns a fresh, editable copy of a stored version
func (s *Store) Restore(id string) (*property.PropertyTree, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return v.Tree(), nil
}

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
