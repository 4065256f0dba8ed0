package tracking

import (
	"sync"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// Update is a field-level merge applied to a stored visitor. Nil pointers
// leave the corresponding field untouched. ActiveSince needs a third state
// (clear vs. leave), hence the separate ClearActiveSince flag.
type Update struct {
	TotalMinutes         *int
	RemainingMinutes     *int
	Status               *string
	SessionStarted       *time.Time
	ActiveSince          *time.Time
	ClearActiveSince     bool
	ConsumedSeconds      *int64
	WhatsAppSent5Min     *bool
	SpeakerActivated5Min *bool
	AlertActive          *bool
	Recharges            *int
	QRData               *string
}

// Store holds the authoritative mutable collection of visitors. Iteration
// order is insertion order. All accessors copy: callers never hold a
// pointer into the store, so every mutation goes through Apply.
//
// The store is safe for concurrent use; HTTP handlers and the poller
// goroutine both touch it.
type Store struct {
	mu       sync.RWMutex
	visitors map[string]*model.Visitor
	order    []string
}

// NewStore returns an empty visitor store.
func NewStore() *Store {
	return &Store{visitors: make(map[string]*model.Visitor)}
}

// Add inserts a visitor. An existing id is overwritten in place without
// disturbing iteration order.
func (s *Store) Add(v model.Visitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visitors[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	c := v
	s.visitors[v.ID] = &c
}

// Get returns a copy of the visitor with the given id.
func (s *Store) Get(id string) (model.Visitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[id]
	if !ok {
		return model.Visitor{}, false
	}
	return *v, true
}

// Apply merges the non-nil fields of u into the stored visitor. A missing
// id leaves the store unchanged and returns false; no error is raised here
// because the original find-then-map contract is a silent no-op. Callers
// that need NotFound semantics check the return value.
func (s *Store) Apply(id string, u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[id]
	if !ok {
		return false
	}
	if u.TotalMinutes != nil {
		v.TotalMinutes = *u.TotalMinutes
	}
	if u.RemainingMinutes != nil {
		v.RemainingMinutes = *u.RemainingMinutes
	}
	if u.Status != nil {
		v.Status = *u.Status
	}
	if u.SessionStarted != nil {
		t := *u.SessionStarted
		v.SessionStarted = &t
	}
	if u.ClearActiveSince {
		v.ActiveSince = nil
	} else if u.ActiveSince != nil {
		t := *u.ActiveSince
		v.ActiveSince = &t
	}
	if u.ConsumedSeconds != nil {
		v.ConsumedSeconds = *u.ConsumedSeconds
	}
	if u.WhatsAppSent5Min != nil {
		v.WhatsAppSent5Min = *u.WhatsAppSent5Min
	}
	if u.SpeakerActivated5Min != nil {
		v.SpeakerActivated5Min = *u.SpeakerActivated5Min
	}
	if u.AlertActive != nil {
		v.AlertActive = *u.AlertActive
	}
	if u.Recharges != nil {
		v.Recharges = *u.Recharges
	}
	if u.QRData != nil {
		v.QRData = *u.QRData
	}
	return true
}

// ListAll returns copies of every visitor in insertion order.
func (s *Store) ListAll() []model.Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Visitor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.visitors[id])
	}
	return out
}

// Len returns the number of stored visitors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
