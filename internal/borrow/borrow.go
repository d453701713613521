// Package borrow implements the runtime-checked aliasing discipline of a
// graph: any number of shared (read-only) borrows, or exactly one
// exclusive (mutating) borrow, never both.
//
// Go has no static aliasing checks, so violations surface as errors at
// acquisition time rather than at compile time. The flag is not a lock: it
// never blocks, and it is not safe for concurrent use. It exists to turn a
// soundness hazard (reading through a handle while the graph is being
// restructured underneath it) into a deterministic failure.
package borrow

import "errors"

var (
	// ErrExclusiveHeld is returned when a borrow is requested while an
	// exclusive borrow is outstanding.
	ErrExclusiveHeld = errors.New("borrow: exclusive borrow outstanding")
	// ErrSharedHeld is returned when an exclusive borrow is requested
	// while shared borrows are outstanding.
	ErrSharedHeld = errors.New("borrow: shared borrows outstanding")
)

// Flag tracks outstanding borrows of one graph. The zero value is ready
// for use.
type Flag struct {
	shared    int
	exclusive bool
}

// AcquireShared registers a shared borrow. It fails if an exclusive
// borrow is outstanding.
func (f *Flag) AcquireShared() error {
	if f.exclusive {
		return ErrExclusiveHeld
	}
	f.shared++
	return nil
}

// ReleaseShared drops one shared borrow.
func (f *Flag) ReleaseShared() {
	if f.shared == 0 {
		panic("borrow: ReleaseShared without matching AcquireShared")
	}
	f.shared--
}

// AcquireExclusive registers the exclusive borrow. It fails if any borrow
// is outstanding.
func (f *Flag) AcquireExclusive() error {
	if f.exclusive {
		return ErrExclusiveHeld
	}
	if f.shared > 0 {
		return ErrSharedHeld
	}
	f.exclusive = true
	return nil
}

// ReleaseExclusive drops the exclusive borrow.
func (f *Flag) ReleaseExclusive() {
	if !f.exclusive {
		panic("borrow: ReleaseExclusive without matching AcquireExclusive")
	}
	f.exclusive = false
}

// ExclusiveHeld reports whether the exclusive borrow is outstanding.
// Mutating entry points check this so that a handle retained past its
// Release cannot mutate while readers are active.
func (f *Flag) ExclusiveHeld() bool {
	return f.exclusive
}

// Idle reports whether no borrow is outstanding.
func (f *Flag) Idle() bool {
	return !f.exclusive && f.shared == 0
}
