package app

import (
	"sync"
)

// EventStore holds the append-only event log and the ID counter.
// Events live in memory only and are lost on restart.
type EventStore struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

// NewEventStore returns an empty store whose first ID is 0
func NewEventStore() *EventStore {
	return &EventStore{events: []Event{}}
}

// Add assigns the next ID, appends the event and returns it.
// The counter read, increment and append happen under one lock.
func (s *EventStore) Add(name, date, dateAdded string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := Event{
		Name:      name,
		Date:      date,
		ID:        s.nextID,
		DateAdded: dateAdded,
	}
	s.nextID++
	s.events = append(s.events, event)

	return event
}

// ByDate returns a copy of all events whose date equals date exactly,
// in insertion order.
func (s *EventStore) ByDate(date string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Event
	for _, e := range s.events {
		if e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched
}

// Len returns the number of stored events
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
