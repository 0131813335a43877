package kernel

import (
	"runtime"
	"sync/atomic"
)

const mailboxSlots = 8

// Mailbox is a fixed-size multi-producer, single-consumer queue.
//
// Producers may run in interrupt context: TrySend never blocks or
// allocates. Each slot carries a sequence number so a consumer never reads
// a slot whose producer has reserved it but not finished writing. The zero
// value is an empty mailbox.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]slot[T]
}

// slot.seq holds the slot's turn relative to its index, so that a zero
// value means "free for the first lap".
type slot[T any] struct {
	seq atomic.Uint32
	v   T
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	for {
		pos := mb.head.Load()
		i := pos % mailboxSlots
		s := &mb.slots[i]
		d := int32(s.seq.Load() - (pos - i))
		switch {
		case d == 0:
			if !mb.head.CompareAndSwap(pos, pos+1) {
				continue
			}
			s.v = v
			s.seq.Store(pos + 1 - i)
			return true
		case d < 0:
			return false
		}
		// Another producer claimed pos; reload.
	}
}

// Send enqueues v, blocking until it succeeds. It must not be called from
// interrupt context.
func (mb *Mailbox[T]) Send(v T) {
	for !mb.TrySend(v) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one value, returning false if empty.
// Only one goroutine may receive.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	pos := mb.tail.Load()
	i := pos % mailboxSlots
	s := &mb.slots[i]
	if s.seq.Load() != pos+1-i {
		return zero, false
	}
	v := s.v
	s.v = zero
	s.seq.Store(pos + mailboxSlots - i)
	mb.tail.Store(pos + 1)
	return v, true
}

// Recv blocks until one value is available.
func (mb *Mailbox[T]) Recv() T {
	for {
		v, ok := mb.TryRecv()
		if ok {
			return v
		}
		runtime.Gosched()
	}
}

// Drain receives until the mailbox is empty and returns the count.
func (mb *Mailbox[T]) Drain(fn func(T)) int {
	n := 0
	for {
		v, ok := mb.TryRecv()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}
