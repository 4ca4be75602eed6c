package log

import (
	"strings"
	"sync"
)

const subscriberBufferSize = 64

// Buffer is the process-wide in-memory log store consumed by the
// dashboard's log panel. It keeps every formatted entry for the lifetime
// of the process and notifies subscribers about new ones, so the UI
// doesn't have to poll. It implements io.Writer to act as a tee target
// for the logger.
type Buffer struct {
	mu          sync.RWMutex
	entries     []string
	subscribers map[string]chan string
}

func NewBuffer() *Buffer {
	return &Buffer{
		subscribers: make(map[string]chan string),
	}
}

// Write splits the incoming chunk into lines and appends each as an entry.
// The standard log.Logger emits one Write per record, trailing newline
// included.
func (b *Buffer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			b.Append(line)
		}
	}
	return len(p), nil
}

func (b *Buffer) Append(entry string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	for _, sub := range b.subscribers {
		select {
		case sub <- entry:
		default: // a stalled subscriber must not block logging
		}
	}
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries)
}

func (b *Buffer) Entries() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := make([]string, len(b.entries))
	copy(res, b.entries)
	return res
}

// EntriesSince returns the entries appended at or after the given index
// along with the next cursor position. Consumers that poll keep the
// returned cursor as their "last displayed" marker.
func (b *Buffer) EntriesSince(index int) ([]string, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if index < 0 {
		index = 0
	}
	if index >= len(b.entries) {
		return nil, len(b.entries)
	}
	res := make([]string, len(b.entries)-index)
	copy(res, b.entries[index:])
	return res, len(b.entries)
}

// SubscribeWithReplay snapshots the existing entries and registers a
// listener in one step, so nothing is lost or duplicated between the
// replay and the live feed.
func (b *Buffer) SubscribeWithReplay(id string) ([]string, <-chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make([]string, len(b.entries))
	copy(snapshot, b.entries)
	sub, ok := b.subscribers[id]
	if !ok {
		sub = make(chan string, subscriberBufferSize)
		b.subscribers[id] = sub
	}
	return snapshot, sub
}

// Subscribe registers a listener for new entries. The returned channel is
// buffered; entries are dropped for subscribers that stop draining.
func (b *Buffer) Subscribe(id string) <-chan string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		sub = make(chan string, subscriberBufferSize)
		b.subscribers[id] = sub
	}
	return sub
}

func (b *Buffer) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, id)
}
