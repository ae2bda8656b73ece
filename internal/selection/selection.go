package selection

import (
	"sort"
	"sync"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// Observer is notified when a record is selected for detail display
type Observer interface {
	OnSelect(rec models.Record)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(rec models.Record)

// OnSelect calls f(rec)
func (f ObserverFunc) OnSelect(rec models.Record) {
	f(rec)
}

// Selector owns the currently selected record and its observers
type Selector struct {
	mu        sync.Mutex
	observers map[int]Observer
	nextID    int
	current   *models.Record
}

// NewSelector creates an empty selector
func NewSelector() *Selector {
	return &Selector{
		observers: make(map[int]Observer),
	}
}

// Subscribe registers o and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (s *Selector) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Select records rec as current and notifies observers in subscription
// order. Observers run on the caller's goroutine, outside the lock.
func (s *Selector) Select(rec models.Record) {
	s.mu.Lock()
	s.current = &rec
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = s.observers[id]
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnSelect(rec)
	}
}

// Current returns the selected record, if any
func (s *Selector) Current() (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.Record{}, false
	}
	return *s.current, true
}

// Clear drops the current selection without notifying observers
func (s *Selector) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
