package ontology

import "sync"

// LockPair is a read/write lock with independently acquirable read and
// write handles. The handles are created with the pair and the same handle
// values are returned on every call, so they can be compared by identity.
type LockPair struct {
	rw    sync.RWMutex
	read  sync.Locker
	write sync.Locker
}

// NewLockPair creates an unlocked pair.
func NewLockPair() *LockPair {
	p := &LockPair{}
	p.read = p.rw.RLocker()
	p.write = &p.rw
	return p
}

// ReadLock returns the shared handle. Many holders may hold it at once.
func (p *LockPair) ReadLock() sync.Locker {
	return p.read
}

// WriteLock returns the exclusive handle.
func (p *LockPair) WriteLock() sync.Locker {
	return p.write
}

// withLock runs fn while holding l. The lock is released on every exit
// path, including panics.
func withLock[T any](l sync.Locker, fn func() T) T {
	l.Lock()
	defer l.Unlock()
	return fn()
}
