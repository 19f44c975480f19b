package fs

import "sync"

// Locker serializes work per key. The web layer locks on the entry date
// so two saves for the same day cannot interleave; distinct days run
// concurrently.
type Locker struct {
	mu   sync.Mutex
	held map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]*sync.Mutex)}
}

func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.held[key]
	if !ok {
		m = &sync.Mutex{}
		l.held[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
