// Package headwatch notifies subscribers when the rendered document head changes.
package headwatch

import (
	"sync"
)

// Watcher remembers the last observed head markup and fans out changes.
type Watcher struct {
	mu      sync.Mutex
	last    string
	seen    bool
	seq     uint64
	nextID  int
	handles map[int]func(string)

	notifyMu  sync.Mutex
	delivered uint64
}

// New returns an empty watcher.
func New() *Watcher {
	return &Watcher{handles: make(map[int]func(string))}
}

// Observe records head. When it differs from the previous observation every subscriber
// is called with the new markup and Observe returns true. Concurrent changes reach
// subscribers in the order they were recorded; one overtaken by a newer change is skipped.
func (w *Watcher) Observe(head string) bool {
	w.mu.Lock()
	if w.seen && w.last == head {
		w.mu.Unlock()
		return false
	}
	w.last = head
	w.seen = true
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()
	if seq <= w.delivered {
		return true
	}
	w.delivered = seq

	w.mu.Lock()
	subs := make([]func(string), 0, len(w.handles))
	for _, fn := range w.handles {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(head)
	}
	return true
}

// Last returns the most recently observed head and whether anything was observed yet.
func (w *Watcher) Last() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.seen
}

// Subscribe registers fn for future changes. The returned func removes it.
func (w *Watcher) Subscribe(fn func(string)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.handles[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.handles, id)
			w.mu.Unlock()
		})
	}
}
