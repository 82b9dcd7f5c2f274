package history

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/reedfamily/a2sbot/internal/plugin"
)

type recorderFunc func(context.Context, plugin.Invocation) error

func (f recorderFunc) Record(ctx context.Context, inv plugin.Invocation) error { return f(ctx, inv) }

func TestFeedFanOut(t *testing.T) {
	f := NewFeed(recorderFunc(func(context.Context, plugin.Invocation) error { return nil }))
	a, b := f.Subscribe(), f.Subscribe()

	if err := f.Record(context.Background(), plugin.Invocation{ID: "1", Name: "ip"}); err != nil {
		t.Fatal(err)
	}
	for _, ch := range []chan plugin.Invocation{a, b} {
		if got := <-ch; got.ID != "1" {
			t.Errorf("got %+v", got)
		}
	}
	if f.Latest() == nil || f.Latest().Name != "ip" {
		t.Errorf("latest = %+v", f.Latest())
	}

	f.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel should be closed")
	}
	f.Record(context.Background(), plugin.Invocation{ID: "2"})
	if got := <-b; got.ID != "2" {
		t.Errorf("got %+v", got)
	}
}

func TestFeedSkipsFailedRecords(t *testing.T) {
	boom := errors.New("disk full")
	f := NewFeed(recorderFunc(func(context.Context, plugin.Invocation) error { return boom }))
	ch := f.Subscribe()

	if err := f.Record(context.Background(), plugin.Invocation{ID: "1"}); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	select {
	case inv := <-ch:
		t.Errorf("unexpected publish %+v", inv)
	default:
	}
}

func TestFeedDropsForSlowListener(t *testing.T) {
	f := NewFeed(recorderFunc(func(context.Context, plugin.Invocation) error { return nil }))
	f.Subscribe()
	for i := 0; i < 20; i++ {
		if err := f.Record(context.Background(), plugin.Invocation{}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFeedUnsubscribeDuringRecord(t *testing.T) {
	f := NewFeed(recorderFunc(func(context.Context, plugin.Invocation) error { return nil }))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					f.Record(context.Background(), plugin.Invocation{Name: "ipt"})
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		ch := f.Subscribe()
		f.Unsubscribe(ch)
	}
	close(stop)
	wg.Wait()
}
