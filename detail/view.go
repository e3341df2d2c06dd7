package detail

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// View shows one coin at a time. Every Show supersedes the previous one: its
// fetch is cancelled and a late result for it is discarded, so only the
// latest requested id ever reaches onUpdate.
type View struct {
	log       *zap.SugaredLogger
	assembler *Assembler
	onUpdate  func(Detail)

	mu      sync.Mutex
	gen     uint64
	id      string
	cancel  context.CancelFunc
	current *Detail
	closed  bool
	wg      sync.WaitGroup
}

func NewView(log *zap.SugaredLogger, assembler *Assembler, onUpdate func(Detail)) *View {
	return &View{
		log:       log.With("component", "detail_view"),
		assembler: assembler,
		onUpdate:  onUpdate,
	}
}

// Show starts loading id in the background and returns immediately.
func (v *View) Show(ctx context.Context, id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	v.id = id
	v.current = nil

	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()
		d := v.assembler.Assemble(ctx, id)
		v.deliver(gen, d)
	}()
}

func (v *View) deliver(gen uint64, d Detail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		v.log.Debugw("drop stale detail", "id", d.ID, "current", v.id)
		return
	}
	v.current = &d
	if v.onUpdate != nil {
		v.onUpdate(d)
	}
}

// Current returns the detail of the latest id once it has loaded.
func (v *View) Current() (Detail, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Detail{}, false
	}
	return *v.current, true
}

func (v *View) ID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id
}

// Close cancels the in-flight load and waits for it to return.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	if v.cancel != nil {
		v.cancel()
	}
	v.mu.Unlock()
	v.wg.Wait()
}
