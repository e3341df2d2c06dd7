package watchlist

import (
	"errors"
	"sync"

	"github.com/kv-base-hack/market-dashboard-api/common"
)

// Reconcile returns the snapshot entries whose id is in set, in snapshot
// order. Ids missing from the snapshot are dropped.
func Reconcile(set Set, snapshot common.Snapshot) []common.MarketEntry {
	rows := make([]common.MarketEntry, 0, set.Len())
	for _, e := range snapshot {
		if set.Contains(e.ID) {
			rows = append(rows, e)
		}
	}
	return rows
}

// Page is the watchlist screen: it keeps the last snapshot so a removal can
// update the rows without fetching again.
type Page struct {
	mu       sync.Mutex
	store    *Store
	snapshot common.Snapshot
	set      Set
	rows     []common.MarketEntry
}

func NewPage(store *Store, snapshot common.Snapshot) *Page {
	p := &Page{store: store}
	p.Refresh(snapshot)
	return p
}

// Refresh reloads the persisted set and joins it with snapshot.
func (p *Page) Refresh(snapshot common.Snapshot) []common.MarketEntry {
	set := p.store.Load()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
	p.set = set
	p.rows = Reconcile(set, snapshot)
	return p.copyRows()
}

func (p *Page) Rows() []common.MarketEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyRows()
}

func (p *Page) Set() Set {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set
}

// Remove persists the removal and recomputes rows from the held snapshot. The
// rows are updated even when persisting fails; the error is returned. When the
// stored set could not be read the rows are left as they were.
func (p *Page) Remove(id string) ([]common.MarketEntry, error) {
	set, err := p.store.Remove(id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if errors.Is(err, ErrUnavailable) {
		return p.copyRows(), err
	}
	p.set = set
	p.rows = Reconcile(set, p.snapshot)
	return p.copyRows(), err
}

// caller holds mu
func (p *Page) copyRows() []common.MarketEntry {
	res := make([]common.MarketEntry, len(p.rows))
	copy(res, p.rows)
	return res
}
