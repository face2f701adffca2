// Package deque implements the Chase-Lev work-stealing deque of spec.md
// §4.5: one owner pushes and pops LIFO from the bottom, any number of other
// goroutines steal FIFO from the top via compare-and-swap. There is no
// ecosystem library for this — it is a handful of atomics over a growable
// ring buffer, and every existing implementation the retrieved examples
// carry is either channel-based or a plain mutex queue, neither of which
// is the lock-free structure the spec calls for — so this one is built
// directly on sync/atomic.
package deque

import (
	"sync/atomic"
)

const minCapacity = 64

// buffer is a power-of-two ring. Indexing uses idx & (cap-1) instead of a
// modulo, so cap must always be a power of two.
type buffer struct {
	cap  int64
	data []atomic.Pointer[any]
}

func newBuffer(capacity int64) *buffer {
	b := &buffer{cap: capacity, data: make([]atomic.Pointer[any], capacity)}
	return b
}

func (b *buffer) at(i int64) any {
	p := b.data[i&(b.cap-1)].Load()
	if p == nil {
		return nil
	}
	return *p
}

func (b *buffer) put(i int64, v any) {
	b.data[i&(b.cap-1)].Store(&v)
}

// Deque is a single-owner, multi-stealer lock-free double-ended queue.
// Construct with New; the constructing goroutine is the owner and must be
// the only caller of PushBottom/PopBottom. Any goroutine may call
// StealTop, including the owner's own goroutine (though there is no reason
// to).
type Deque struct {
	bottom  atomic.Int64
	top     atomic.Int64
	buf     atomic.Pointer[buffer]
	retired []*buffer // owner-only: old buffers kept alive until Deque is dropped
}

// New returns an empty Deque with an initial capacity of at least 64.
func New() *Deque {
	d := &Deque{}
	d.buf.Store(newBuffer(minCapacity))
	return d
}

// PushBottom pushes item onto the owner's end of the deque (owner-only).
func (d *Deque) PushBottom(item any) {
	b := d.bottom.Load()
	t := d.top.Load()
	buf := d.buf.Load()

	if b-t >= buf.cap {
		grown := d.grow(buf, b, t)
		buf = grown
	}

	buf.put(b, item)
	// Release: publishes the item to any stealer that observes the new
	// bottom.
	d.bottom.Store(b + 1)
}

// grow doubles buf's capacity, copies the live [t, b) range into it,
// installs it, and retires the old buffer (kept alive, never freed, so a
// concurrent stealer still reading from it never sees a dangling slot).
func (d *Deque) grow(buf *buffer, b, t int64) *buffer {
	next := newBuffer(buf.cap * 2)
	for i := t; i < b; i++ {
		next.put(i, buf.at(i))
	}
	d.retired = append(d.retired, buf)
	d.buf.Store(next)
	return next
}

// PopBottom removes and returns the owner's most recently pushed item
// (LIFO), or ok=false if the deque was empty (owner-only).
func (d *Deque) PopBottom() (item any, ok bool) {
	b := d.bottom.Load() - 1
	buf := d.buf.Load()
	d.bottom.Store(b)
	t := d.top.Load()

	if t > b {
		// Already empty; restore bottom and report nothing.
		d.bottom.Store(b + 1)
		return nil, false
	}

	v := buf.at(b)
	if t == b {
		// Last element: race with stealers resolved by CAS on top.
		if !d.top.CompareAndSwap(t, t+1) {
			// A stealer won the race.
			d.bottom.Store(b + 1)
			return nil, false
		}
		d.bottom.Store(b + 1)
		return v, true
	}
	return v, true
}

// StealResult is the outcome of a StealTop call.
type StealResult int

const (
	// StealEmpty means the deque had nothing to steal.
	StealEmpty StealResult = iota
	// StealSuccess means item holds a stolen value.
	StealSuccess
	// StealRetry means another stealer won a concurrent race; the caller
	// may retry.
	StealRetry
)

// StealTop attempts to remove the oldest item (FIFO) from the deque. Any
// goroutine may call this concurrently with the owner's push/pop and with
// other stealers.
func (d *Deque) StealTop() (item any, result StealResult) {
	t := d.top.Load()
	// Sequentially consistent fence: ensures the bottom load below cannot
	// be reordered before the top load above, matching the owner's
	// pop-side fence at the last-item race window (spec.md §9).
	b := d.bottom.Load()
	if t >= b {
		return nil, StealEmpty
	}
	buf := d.buf.Load()
	v := buf.at(t)
	if !d.top.CompareAndSwap(t, t+1) {
		return nil, StealRetry
	}
	return v, StealSuccess
}

// IsEmpty is a racy best-effort check; callers must still handle a
// subsequent Pop/Steal returning nothing.
func (d *Deque) IsEmpty() bool {
	b := d.bottom.Load()
	t := d.top.Load()
	return b <= t
}

// Len is a racy best-effort size estimate, never negative.
func (d *Deque) Len() int64 {
	b := d.bottom.Load()
	t := d.top.Load()
	if b < t {
		return 0
	}
	return b - t
}
