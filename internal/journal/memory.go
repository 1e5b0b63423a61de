package journal

import "sync"

// subscriber channel buffer; records beyond this are dropped for that
// subscriber rather than blocking the appending session
const subscriberBuffer = 100

// MemoryJournal is an in-memory implementation of [Journal].
//
// Records accumulate in append order and are fanned out to subscribers
// via buffered channels. Sends are non-blocking: a subscriber whose
// buffer is full misses records instead of stalling the polling sessions
// that append them.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []Record

	subMu       sync.RWMutex
	subscribers map[chan Record]struct{}
}

// NewMemoryJournal creates an empty in-memory [Journal].
//
// The journal is immediately ready for use. No cleanup is required when
// done.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		subscribers: make(map[chan Record]struct{}),
	}
}

// Append stores a [Record] and notifies all subscribers.
func (m *MemoryJournal) Append(rec Record) {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()

	m.notifySubscribers(rec)
}

// Snapshot returns a copy of all records appended so far, in order.
func (m *MemoryJournal) Snapshot() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Subscribe creates a new subscription and returns its receive channel.
//
// The channel has a buffer of 100 records. If the buffer fills (slow
// consumer), new records are dropped for this subscriber.
//
// Caller must call [MemoryJournal.Unsubscribe] when done.
func (m *MemoryJournal) Subscribe() <-chan Record {
	ch := make(chan Record, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryJournal) Unsubscribe(ch <-chan Record) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for sub := range m.subscribers {
		if sub == ch {
			delete(m.subscribers, sub)
			close(sub)
			return
		}
	}
}

// notifySubscribers sends a record to every subscriber, non-blocking.
func (m *MemoryJournal) notifySubscribers(rec Record) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for sub := range m.subscribers {
		select {
		case sub <- rec:
		default:
			// full buffer: drop for this subscriber
		}
	}
}
