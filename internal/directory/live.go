package directory

import "sync"

// Feed pushes a fresh snapshot to subscribers whenever the directory changes.
type Feed interface {
	Subscribe(fn func(*Directory)) (unsubscribe func())
}

// Live holds the current directory snapshot and fans out replacements to
// subscribers. It is safe for concurrent use. Subscribers are called in
// subscription order from the goroutine that called Publish, one delivery at
// a time, and never see an older snapshot after a newer one. Subscribers
// must not call Publish or Subscribe.
type Live struct {
	mu     sync.RWMutex
	snap   *Directory
	seq    uint64
	subs   map[int]func(*Directory)
	order  []int
	nextID int

	// deliverMu serialises fan-out; delivered is the seq last fanned out.
	deliverMu sync.Mutex
	delivered uint64
}

// NewLive creates a Live feed holding an empty directory.
func NewLive() *Live {
	return &Live{
		snap: New(nil, nil),
		subs: make(map[int]func(*Directory)),
	}
}

// Snapshot returns the current directory.
func (l *Live) Snapshot() *Directory {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Publish replaces the snapshot with one built from users and groups and
// notifies subscribers.
func (l *Live) Publish(users, groups []Entity) *Directory {
	snap := New(users, groups)

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.snap = snap
	l.mu.Unlock()

	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()
	if seq < l.delivered {
		// A later Publish already reached subscribers.
		return snap
	}
	l.delivered = seq

	l.mu.RLock()
	fns := make([]func(*Directory), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.subs[id])
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
	return snap
}

// Subscribe registers fn and immediately calls it with the current snapshot.
// The returned function removes the subscription; calling it twice is a no-op.
func (l *Live) Subscribe(fn func(*Directory)) func() {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.order = append(l.order, id)
	snap := l.snap
	l.mu.Unlock()

	fn(snap)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[id]; !ok {
			return
		}
		delete(l.subs, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}
