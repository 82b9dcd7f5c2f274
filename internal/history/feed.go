package history

import (
	"context"
	"sync"

	"github.com/reedfamily/a2sbot/internal/plugin"
)

// Feed records invocations through a Recorder and fans each stored record
// out to live subscribers.
type Feed struct {
	rec plugin.Recorder

	mu        sync.RWMutex
	latest    *plugin.Invocation
	listeners []chan plugin.Invocation
}

func NewFeed(rec plugin.Recorder) *Feed {
	return &Feed{rec: rec}
}

func (f *Feed) Record(ctx context.Context, inv plugin.Invocation) error {
	if err := f.rec.Record(ctx, inv); err != nil {
		return err
	}

	// Sends happen under the lock so Unsubscribe cannot close a channel
	// mid-send; they never block.
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &inv
	for _, ch := range f.listeners {
		select {
		case ch <- inv:
		default:
			// Drop if listener is slow
		}
	}
	return nil
}

func (f *Feed) Latest() *plugin.Invocation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest
}

func (f *Feed) Subscribe() chan plugin.Invocation {
	ch := make(chan plugin.Invocation, 8)
	f.mu.Lock()
	f.listeners = append(f.listeners, ch)
	f.mu.Unlock()
	return ch
}

func (f *Feed) Unsubscribe(ch chan plugin.Invocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listeners {
		if l == ch {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}
