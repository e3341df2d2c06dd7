package storage

import (
	"sync"
	"time"

	"github.com/kv-base-hack/market-dashboard-api/common"
	"go.uber.org/zap"
)

// Storage holds the latest market snapshot and the cached upstream body served
// by the markets proxy.
type Storage struct {
	log   *zap.SugaredLogger
	mutex sync.RWMutex

	snapshot   common.Snapshot
	snapshotAt time.Time

	marketsBody []byte
	marketsAt   time.Time

	subscribers map[chan common.Snapshot]struct{}
}

func NewStorage(log *zap.SugaredLogger) *Storage {
	return &Storage{
		log:         log,
		snapshot:    common.Snapshot{},
		subscribers: make(map[chan common.Snapshot]struct{}),
	}
}

// SetSnapshot replaces the snapshot as a whole and notifies subscribers. A
// subscriber that has not consumed the previous snapshot only sees the newest.
func (s *Storage) SetSnapshot(snapshot common.Snapshot, at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.snapshot = snapshot
	s.snapshotAt = at
	for ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
	s.log.Debugw("set snapshot", "entries", len(snapshot), "subscribers", len(s.subscribers))
}

// GetSnapshot returns the latest snapshot and when it was fetched. The zero
// time means no fetch has succeeded yet. Callers must not modify the result.
func (s *Storage) GetSnapshot() (common.Snapshot, time.Time) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snapshot, s.snapshotAt
}

// Subscribe returns a channel that receives every new snapshot. The
// returned func removes the subscription.
func (s *Storage) Subscribe() (<-chan common.Snapshot, func()) {
	ch := make(chan common.Snapshot, 1)

	s.mutex.Lock()
	s.subscribers[ch] = struct{}{}
	s.mutex.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mutex.Lock()
			delete(s.subscribers, ch)
			s.mutex.Unlock()
		})
	}
}

func (s *Storage) SetMarketsBody(body []byte, at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.marketsBody = body
	s.marketsAt = at
}

// GetMarketsBody returns the cached markets body if it is younger than ttl.
func (s *Storage) GetMarketsBody(now time.Time, ttl time.Duration) ([]byte, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.marketsBody == nil || now.Sub(s.marketsAt) >= ttl {
		return nil, false
	}
	return s.marketsBody, true
}
