package audio

import (
	"runtime"
	"sync/atomic"
)

type eventKind uint8

const (
	eventNoteOn eventKind = iota
	eventNoteOff
	eventAllNotesOff
)

// event is a note message from the control goroutine to the audio callback.
type event struct {
	kind     eventKind
	note     uint8
	velocity uint8
}

// eventBuffer is a lock-free single producer, single consumer ring. read and
// write count events ever taken and queued; they wrap with uint32 overflow.
type eventBuffer struct {
	events []event
	mask   uint32
	read   atomic.Uint32
	write  atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		mask:   uint32(size - 1),
	}
}

// tryPush queues ev and reports false when the ring is full.
func (b *eventBuffer) tryPush(ev event) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.events)) {
		return false
	}
	b.events[write&b.mask] = ev
	b.write.Store(write + 1)
	return true
}

// push waits for the consumer while the ring is full.
func (b *eventBuffer) push(ev event) {
	for !b.tryPush(ev) {
		runtime.Gosched()
	}
}

func (b *eventBuffer) pending() int {
	return int(b.write.Load() - b.read.Load())
}

// drain calls f for every queued event in push order.
func (b *eventBuffer) drain(f func(event)) {
	read, write := b.read.Load(), b.write.Load()
	for ; read != write; read++ {
		f(b.events[read&b.mask])
	}
	b.read.Store(read)
}
