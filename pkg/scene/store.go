package scene

import (
	"sync"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/chazu/octreeview/pkg/probe"
	"github.com/pkg/errors"
)

// ErrNoScene is returned when the store has not been given a snapshot.
var ErrNoScene = errors.New("scene: no scene built")

// Store holds the current snapshot. Snapshots are swapped whole; readers
// holding an older snapshot keep a consistent view of it.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace makes s current and returns the snapshot it replaced.
func (st *Store) Replace(s *Snapshot) *Snapshot {
	st.mu.Lock()
	prev := st.current
	st.current = s
	st.mu.Unlock()

	if s != nil {
		instrumentCurrent(s)
	}
	return prev
}

// Current returns the current snapshot, or nil.
func (st *Store) Current() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Rebuild builds a snapshot from c and makes it current. On error the
// current snapshot is left in place.
func (st *Store) Rebuild(c *cloud.Cloud, d Domain, source string) (*Snapshot, error) {
	s, err := Build(c, d, source)
	if err != nil {
		return nil, err
	}
	st.Replace(s)
	return s, nil
}

// Query runs p against the current snapshot.
func (st *Store) Query(p probe.Probe) ([]int, error) {
	s := st.Current()
	if s == nil {
		return nil, ErrNoScene
	}
	return s.Query(p)
}
