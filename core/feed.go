package core

import (
	"errors"
	"sync"

	"nexledger/core/events"
	"nexledger/core/types"
)

var errNilDependency = errors.New("core: nil dependency")

// eventFeed retains the most recent ledger events in a bounded ring so the
// RPC layer can expose them to pollers. It satisfies events.Emitter.
type eventFeed struct {
	mu  sync.Mutex
	buf []*types.Event
	max int
}

func newEventFeed(max int) *eventFeed {
	if max <= 0 {
		max = 1
	}
	return &eventFeed{max: max}
}

// Emit implements events.Emitter. Payloads that cannot render a concrete
// types.Event are dropped.
func (f *eventFeed) Emit(evt events.Event) {
	payload, ok := evt.(interface{ Event() *types.Event })
	if !ok {
		return
	}
	rendered := payload.Event()
	if rendered == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = append(f.buf, rendered)
	if len(f.buf) > f.max {
		f.buf = f.buf[len(f.buf)-f.max:]
	}
}

// Snapshot returns the retained events, oldest first.
func (f *eventFeed) Snapshot() []*types.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Event(nil), f.buf...)
}
