package view

import (
	"sync"

	"github.com/kv-base-hack/market-dashboard-api/common"
)

// ListView holds the filter state of one market list and recomputes its page
// whenever the snapshot or the filter changes.
type ListView struct {
	mu       sync.Mutex
	snapshot common.Snapshot
	state    common.FilterState
	current  Page
}

func NewListView() *ListView {
	v := &ListView{
		state: common.FilterState{Category: common.CategoryAll, Page: 1},
	}
	v.recompute()
	return v
}

// SetSnapshot replaces the data; the current page is kept but clamped.
func (v *ListView) SetSnapshot(s common.Snapshot) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snapshot = s
	return v.recompute()
}

func (v *ListView) SetSearch(text string) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SearchText = text
	v.state.Page = 1
	return v.recompute()
}

func (v *ListView) SetCategory(c common.Category) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Category = c
	v.state.Page = 1
	return v.recompute()
}

func (v *ListView) SetPage(page int) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Page = page
	return v.recompute()
}

func (v *ListView) Next() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Page++
	return v.recompute()
}

func (v *ListView) Prev() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Page--
	return v.recompute()
}

func (v *ListView) State() common.FilterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ListView) Current() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// caller holds mu
func (v *ListView) recompute() Page {
	v.current = Apply(v.snapshot, v.state)
	v.state.Page = v.current.CurrentPage
	return v.current
}
