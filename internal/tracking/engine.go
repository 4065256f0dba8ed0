package tracking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// SessionPersister mirrors session field changes to durable storage. The
// engine treats persistence as best-effort: failures are logged, never
// surfaced to the visitor-facing flow.
type SessionPersister interface {
	SaveSession(ctx context.Context, v model.Visitor) error
}

// Engine is the session lifecycle controller. Every mutation of a
// visitor's session fields goes through its methods; the store is never
// written directly by handlers or the poller. A single mutex serializes
// the read-check-mutate sequences, which is what keeps the 5-minute
// warning exactly-once when user actions race with a poller tick.
type Engine struct {
	mu        sync.Mutex
	store     *Store
	persister SessionPersister
	nowFunc   func() time.Time
}

// NewEngine builds an engine around the given store. persister may be nil
// when write-through is not wanted (tests).
func NewEngine(store *Store, persister SessionPersister) *Engine {
	return &Engine{
		store:     store,
		persister: persister,
		nowFunc:   time.Now,
	}
}

// Register adds a freshly sold visitor to the store in REGISTERED state.
func (e *Engine) Register(v model.Visitor) {
	e.store.Add(v)
	e.persistVisitor(v)
}

// Load re-inserts a visitor restored from the database without writing
// back.
func (e *Engine) Load(v model.Visitor) {
	e.store.Add(v)
}

// Get returns a copy of the visitor, or ErrNotFound.
func (e *Engine) Get(id string) (model.Visitor, error) {
	v, ok := e.store.Get(id)
	if !ok {
		return model.Visitor{}, ErrNotFound
	}
	return v, nil
}

// ListAll returns every visitor in insertion order.
func (e *Engine) ListAll() []model.Visitor {
	return e.store.ListAll()
}

// Board returns the visitors shown on the tracking board: ACTIVE and
// PAUSED sessions, insertion order preserved.
func (e *Engine) Board() []model.Visitor {
	all := e.store.ListAll()
	out := make([]model.Visitor, 0, len(all))
	for _, v := range all {
		if v.Status == model.StatusActive || v.Status == model.StatusPaused {
			out = append(out, v)
		}
	}
	return out
}

// Start activates a session. From REGISTERED it stamps SessionStarted
// (first activation only); from PAUSED it resumes without touching
// SessionStarted. Any other state is rejected.
func (e *Engine) Start(id string) error {
	e.mu.Lock()
	v, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	now := e.nowFunc()
	status := model.StatusActive
	u := Update{Status: &status, ActiveSince: &now}
	switch v.Status {
	case model.StatusRegistered:
		if v.SessionStarted == nil {
			u.SessionStarted = &now
		}
	case model.StatusPaused:
		// SessionStarted left untouched on resume.
	default:
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot start %s visitor", ErrInvalidTransition, v.Status)
	}
	e.store.Apply(id, u)
	e.mu.Unlock()
	e.persist(id)
	return nil
}

// Resume is Start from PAUSED, kept as its own name for handler clarity.
func (e *Engine) Resume(id string) error { return e.Start(id) }

// Pause suspends an ACTIVE session. The elapsed seconds of the current
// stretch are folded into ConsumedSeconds so paused time does not count
// against the remaining allotment.
func (e *Engine) Pause(id string) error {
	e.mu.Lock()
	v, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	if v.Status != model.StatusActive {
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot pause %s visitor", ErrInvalidTransition, v.Status)
	}
	consumed := consumedAt(v, e.nowFunc())
	status := model.StatusPaused
	e.store.Apply(id, Update{Status: &status, ConsumedSeconds: &consumed, ClearActiveSince: true})
	e.mu.Unlock()
	e.persist(id)
	return nil
}

// End finishes an ACTIVE or PAUSED session. FINISHED is terminal:
// RemainingMinutes is frozen at 0 and no further transition is accepted.
func (e *Engine) End(id string) error {
	e.mu.Lock()
	v, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	if v.Status != model.StatusActive && v.Status != model.StatusPaused {
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot end %s visitor", ErrInvalidTransition, v.Status)
	}
	consumed := consumedAt(v, e.nowFunc())
	status := model.StatusFinished
	zero := 0
	e.store.Apply(id, Update{
		Status:           &status,
		RemainingMinutes: &zero,
		ConsumedSeconds:  &consumed,
		ClearActiveSince: true,
	})
	e.mu.Unlock()
	e.persist(id)
	return nil
}

// AddTime grants extra minutes mid-session (a recharge). Both
// TotalMinutes and RemainingMinutes grow by the same amount and the
// recharge counter increments. Rejected on FINISHED visitors and for
// non-positive amounts.
func (e *Engine) AddTime(id string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive, got %d", ErrInvalidArgument, minutes)
	}
	e.mu.Lock()
	v, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	if v.Status == model.StatusFinished {
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot add time to a finished visitor", ErrInvalidTransition)
	}
	total := v.TotalMinutes + minutes
	remaining := v.RemainingMinutes + minutes
	recharges := v.Recharges + 1
	e.store.Apply(id, Update{TotalMinutes: &total, RemainingMinutes: &remaining, Recharges: &recharges})
	e.mu.Unlock()
	e.persist(id)
	return nil
}

// RefreshRemaining recomputes the visitor's remaining minutes at the
// given instant and stores the result. The recomputation happens under
// the engine lock from the live record, so a recharge landing between a
// poller snapshot and the refresh is never overwritten with a stale
// value. Returns false when the visitor no longer exists.
func (e *Engine) RefreshRemaining(id string, now time.Time) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.store.Get(id)
	if !ok {
		return 0, false
	}
	remaining := RemainingAt(v, now)
	if remaining != v.RemainingMinutes {
		e.store.Apply(id, Update{RemainingMinutes: &remaining})
	}
	return remaining, true
}

// MarkWarned sets the 5-minute warning flags. It returns false when the
// warning was already recorded, which is the exactly-once guard: the
// caller only dispatches when MarkWarned returns true, and the flags are
// visible before any dispatch is handed off.
func (e *Engine) MarkWarned(id string) bool {
	e.mu.Lock()
	v, ok := e.store.Get(id)
	if !ok || v.WhatsAppSent5Min {
		e.mu.Unlock()
		return false
	}
	t := true
	e.store.Apply(id, Update{WhatsAppSent5Min: &t, SpeakerActivated5Min: &t, AlertActive: &t})
	e.mu.Unlock()
	e.persist(id)
	return true
}

// RemainingAt computes the visitor's remaining whole minutes at the given
// instant from the accumulated active duration, clamped at 0.
func RemainingAt(v model.Visitor, now time.Time) int {
	elapsedMin := int(consumedAt(v, now) / 60)
	remaining := v.TotalMinutes - elapsedMin
	if remaining < 0 {
		return 0
	}
	return remaining
}

// consumedAt returns the total ACTIVE seconds consumed up to now.
func consumedAt(v model.Visitor, now time.Time) int64 {
	consumed := v.ConsumedSeconds
	if v.ActiveSince != nil {
		d := now.Sub(*v.ActiveSince)
		if d > 0 {
			consumed += int64(d / time.Second)
		}
	}
	return consumed
}

func (e *Engine) persist(id string) {
	if e.persister == nil {
		return
	}
	if v, ok := e.store.Get(id); ok {
		e.persistVisitor(v)
	}
}

func (e *Engine) persistVisitor(v model.Visitor) {
	if e.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := e.persister.SaveSession(ctx, v); err != nil {
		log.Printf("tracking: persist visitor %s failed: %v", v.ID, err)
	}
}
