// Package event provides an in-process event dispatcher.
//
// Listeners are registered per event name and invoked either
// synchronously (Fire) or on a goroutine (FireAsync). The inventory
// engine fires "stock.changed" after every applied transaction so the
// websocket feed and any other listeners can react without coupling.
package event

import (
	"sync"

	"github.com/stockpile-io/stockpile/pkg/logger"
)

// Listener handles a fired event. payload is event-specific.
type Listener func(payload interface{})

type dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	wg        sync.WaitGroup
}

var d = &dispatcher{listeners: make(map[string][]Listener)}

// Listen registers a listener for the named event.
func Listen(name string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[name] = append(d.listeners[name], l)
}

// Fire invokes all listeners for name synchronously, in registration
// order. A panicking listener is recovered and logged so it cannot take
// down the caller.
func Fire(name string, payload interface{}) {
	d.mu.RLock()
	ls := d.listeners[name]
	d.mu.RUnlock()

	for _, l := range ls {
		invoke(name, l, payload)
	}
}

// FireAsync invokes all listeners for name on a shared goroutine.
// Flush waits for async work to finish.
func FireAsync(name string, payload interface{}) {
	d.mu.RLock()
	ls := d.listeners[name]
	d.mu.RUnlock()

	if len(ls) == 0 {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, l := range ls {
			invoke(name, l, payload)
		}
	}()
}

// Flush blocks until all in-flight async listeners have returned.
// Intended for graceful shutdown and tests.
func Flush() {
	d.wg.Wait()
}

// Reset removes every registered listener. Test helper.
func Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = make(map[string][]Listener)
}

func invoke(name string, l Listener, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "event", name, "panic", r)
		}
	}()
	l(payload)
}
