// Package watchlist persists the user's favorite coins and joins them against
// the live market snapshot.
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kv-base-hack/market-dashboard-api/storage/db"
	"go.uber.org/zap"
)

// Key is the single storage key holding the JSON array of ids.
const Key = "watchlist"

var (
	ErrMalformed = errors.New("malformed watchlist data")
	// ErrUnavailable is returned by mutations when the stored watchlist could
	// not be read. Nothing is written in that case.
	ErrUnavailable = errors.New("watchlist unavailable")
)

// Store reads and writes the watchlist through a key/value backend. Mutations
// are serialized so concurrent toggles of one id flip membership once each.
type Store struct {
	log *zap.SugaredLogger
	kv  db.KV
	mu  sync.Mutex
}

func NewStore(log *zap.SugaredLogger, kv db.KV) *Store {
	return &Store{
		log: log.With("component", "watchlist"),
		kv:  kv,
	}
}

// Load never fails: missing, unreadable or malformed data is an empty set.
func (s *Store) Load() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.load()
	if err != nil {
		return NewSet()
	}
	return set
}

// Save persists set. A failure leaves the caller's in-memory set valid.
func (s *Store) Save(set Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(set)
}

// Toggle flips membership of id and reports whether it is now a member.
// On a save error the returned set still reflects the flip.
func (s *Store) Toggle(id string) (Set, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return set, false, err
	}
	added := !set.Contains(id)
	if added {
		set = set.With(id)
	} else {
		set = set.Without(id)
	}
	return set, added, s.save(set)
}

func (s *Store) Add(id string) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return set, err
	}
	if set.Contains(id) {
		return set, nil
	}
	set = set.With(id)
	return set, s.save(set)
}

func (s *Store) Remove(id string) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return set, err
	}
	if !set.Contains(id) {
		return set, nil
	}
	set = set.Without(id)
	return set, s.save(set)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(Key); err != nil {
		s.log.Errorw("error when clear watchlist", "err", err)
		return err
	}
	return nil
}

// load treats missing and malformed data as empty. A backend read error is
// returned wrapped in ErrUnavailable so mutations never overwrite data they
// could not read. Caller holds mu.
func (s *Store) load() (Set, error) {
	raw, err := s.kv.Get(Key)
	if errors.Is(err, db.ErrNotFound) {
		return NewSet(), nil
	}
	if err != nil {
		s.log.Errorw("error when load watchlist", "err", err)
		return NewSet(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	set, err := Decode(raw)
	if err != nil {
		s.log.Warnw("ignore stored watchlist", "raw", string(raw), "err", err)
		return NewSet(), nil
	}
	return set, nil
}

// caller holds mu
func (s *Store) save(set Set) error {
	raw, err := Encode(set)
	if err != nil {
		return err
	}
	if err := s.kv.Set(Key, raw); err != nil {
		s.log.Errorw("error when save watchlist", "size", set.Len(), "err", err)
		return err
	}
	return nil
}

func Encode(set Set) ([]byte, error) {
	return json.Marshal(set.IDs())
}

func Decode(raw []byte) (Set, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return NewSet(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return NewSet(ids...), nil
}
