package event_test

import (
	"sync/atomic"
	"testing"

	"github.com/stockpile-io/stockpile/pkg/event"
)

func TestFireInvokesListenersInOrder(t *testing.T) {
	t.Cleanup(event.Reset)

	var got []int
	event.Listen("order", func(payload interface{}) { got = append(got, 1) })
	event.Listen("order", func(payload interface{}) { got = append(got, 2) })

	event.Fire("order", nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("listener order = %v", got)
	}
}

func TestFirePassesPayload(t *testing.T) {
	t.Cleanup(event.Reset)

	var got interface{}
	event.Listen("payload", func(payload interface{}) { got = payload })

	event.Fire("payload", "hello")

	if got != "hello" {
		t.Errorf("payload = %v", got)
	}
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	t.Cleanup(event.Reset)
	event.Fire("nobody-listens", 42)
}

func TestFireAsyncAndFlush(t *testing.T) {
	t.Cleanup(event.Reset)

	var count atomic.Int32
	event.Listen("async", func(payload interface{}) { count.Add(1) })

	for i := 0; i < 10; i++ {
		event.FireAsync("async", i)
	}
	event.Flush()

	if count.Load() != 10 {
		t.Errorf("expected 10 invocations, got %d", count.Load())
	}
}

func TestPanickingListenerIsRecovered(t *testing.T) {
	t.Cleanup(event.Reset)

	var reached bool
	event.Listen("boom", func(payload interface{}) { panic("listener bug") })
	event.Listen("boom", func(payload interface{}) { reached = true })

	event.Fire("boom", nil)

	if !reached {
		t.Error("listener after the panicking one was not invoked")
	}
}
