package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// fakeDispatcher records dispatched effects and can fail on demand.
type fakeDispatcher struct {
	mu        sync.Mutex
	warnings  []string
	ended     []string
	announced []string
	warnErr   error
}

func (f *fakeDispatcher) SendWarning(_ context.Context, v model.Visitor, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, v.ID)
	return f.warnErr
}

func (f *fakeDispatcher) SendSessionEnded(_ context.Context, v model.Visitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, v.ID)
	return nil
}

func (f *fakeDispatcher) Announce(_ context.Context, v model.Visitor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announced = append(f.announced, v.ID)
}

func newTestPoller(clock *fakeClock) (*Poller, *Engine, *fakeDispatcher) {
	e := newTestEngine(clock)
	d := &fakeDispatcher{}
	p := NewPoller(e, d, nil, time.Second)
	p.nowFunc = clock.Now
	return p, e, d
}

func countKind(effects []Effect, kind string) int {
	n := 0
	for _, eff := range effects {
		if eff.Kind == kind {
			n++
		}
	}
	return n
}

func TestTickFullSessionLifecycle(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	v := testVisitor("a")
	v.TotalMinutes = 10
	v.RemainingMinutes = 10
	v.InitialMinutes = 10
	e.Register(v)
	if err := e.Start("a"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Plenty of time left: no effects.
	clock.Advance(2 * time.Minute)
	if effects := p.Tick(); len(effects) != 0 {
		t.Fatalf("effects at 8 remaining = %v, want none", effects)
	}
	got, _ := e.Get("a")
	if got.RemainingMinutes != 8 {
		t.Errorf("remaining = %d, want 8", got.RemainingMinutes)
	}

	// Crossing the 5-minute boundary produces exactly one warning.
	clock.Advance(4 * time.Minute)
	effects := p.Tick()
	if countKind(effects, EffectWarning) != 1 {
		t.Fatalf("warning effects = %v, want exactly one", effects)
	}
	if effects[0].MinutesLeft != 4 {
		t.Errorf("MinutesLeft = %d, want 4", effects[0].MinutesLeft)
	}
	if !effects[0].Visitor.WhatsAppSent5Min {
		t.Error("effect snapshot missing warning flag")
	}

	// Later ticks inside the window stay quiet.
	clock.Advance(time.Minute)
	if effects := p.Tick(); len(effects) != 0 {
		t.Fatalf("repeat warning: effects = %v", effects)
	}

	// Time up: session ends, remaining pinned to 0.
	clock.Advance(5 * time.Minute)
	effects = p.Tick()
	if countKind(effects, EffectSessionEnded) != 1 {
		t.Fatalf("session end effects = %v, want exactly one", effects)
	}
	got, _ = e.Get("a")
	if got.Status != model.StatusFinished || got.RemainingMinutes != 0 {
		t.Errorf("final state = %s/%d, want FINISHED/0", got.Status, got.RemainingMinutes)
	}

	// Finished visitors are skipped for good.
	clock.Advance(time.Hour)
	if effects := p.Tick(); len(effects) != 0 {
		t.Errorf("tick after finish produced effects: %v", effects)
	}
}

func TestTickWarnsOnThresholdSkip(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	v := testVisitor("a")
	v.TotalMinutes = 10
	v.RemainingMinutes = 10
	e.Register(v)
	if err := e.Start("a"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Jump straight from 10 to 3 remaining, skipping over 5.
	clock.Advance(7 * time.Minute)
	effects := p.Tick()
	if countKind(effects, EffectWarning) != 1 {
		t.Fatalf("warning effects after skip = %v, want one", effects)
	}
	if effects[0].MinutesLeft != 3 {
		t.Errorf("MinutesLeft = %d, want 3", effects[0].MinutesLeft)
	}
}

func TestTickNoWarningWhenSessionEndsOutright(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	v := testVisitor("a")
	v.TotalMinutes = 10
	v.RemainingMinutes = 10
	e.Register(v)
	if err := e.Start("a"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The whole allotment elapses between ticks. The warning window was
	// never observed, so only the end notification goes out.
	clock.Advance(15 * time.Minute)
	effects := p.Tick()
	if countKind(effects, EffectWarning) != 0 {
		t.Errorf("warning fired for an already-expired session: %v", effects)
	}
	if countKind(effects, EffectSessionEnded) != 1 {
		t.Errorf("session end effects = %v, want one", effects)
	}
}

func TestTickSkipsPausedAndRegistered(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	reg := testVisitor("reg")
	reg.TotalMinutes = 3
	reg.RemainingMinutes = 3
	e.Register(reg)

	pau := testVisitor("pau")
	pau.TotalMinutes = 30
	pau.RemainingMinutes = 30
	e.Register(pau)
	if err := e.Start("pau"); err != nil {
		t.Fatal(err)
	}
	if err := e.Pause("pau"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Hour)
	if effects := p.Tick(); len(effects) != 0 {
		t.Errorf("effects for non-ACTIVE visitors: %v", effects)
	}
	v, _ := e.Get("pau")
	if v.Status != model.StatusPaused || v.RemainingMinutes != 30 {
		t.Errorf("paused visitor drifted: %s/%d, want PAUSED/30", v.Status, v.RemainingMinutes)
	}
}

func TestTickRemainingNeverIncreasesWithoutRecharge(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	v := testVisitor("a")
	v.TotalMinutes = 20
	v.RemainingMinutes = 20
	e.Register(v)
	if err := e.Start("a"); err != nil {
		t.Fatal(err)
	}

	prev := 20
	for i := 0; i < 25; i++ {
		clock.Advance(45 * time.Second)
		p.Tick()
		cur, _ := e.Get("a")
		if cur.RemainingMinutes > prev {
			t.Fatalf("remaining increased %d -> %d at step %d", prev, cur.RemainingMinutes, i)
		}
		prev = cur.RemainingMinutes
	}
}

func TestTickRechargeReopensWarningWindow(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, _ := newTestPoller(clock)

	v := testVisitor("a")
	v.TotalMinutes = 10
	v.RemainingMinutes = 10
	e.Register(v)
	if err := e.Start("a"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(6 * time.Minute)
	if effects := p.Tick(); countKind(effects, EffectWarning) != 1 {
		t.Fatalf("expected first warning, got %v", effects)
	}

	// A recharge extends the session but the original warning stays
	// spent: one warning per visitor.
	if err := e.AddTime("a", 30); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	got, _ := e.Get("a")
	if got.RemainingMinutes != 34 {
		t.Errorf("remaining after recharge = %d, want 34", got.RemainingMinutes)
	}

	clock.Advance(30 * time.Minute)
	effects := p.Tick()
	if countKind(effects, EffectWarning) != 0 {
		t.Errorf("second warning after recharge: %v", effects)
	}
}

func TestDispatchFailureDoesNotBlockOthers(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	p, e, d := newTestPoller(clock)
	d.warnErr = errors.New("broker down")

	for _, id := range []string{"a", "b"} {
		v := testVisitor(id)
		v.TotalMinutes = 10
		v.RemainingMinutes = 10
		e.Register(v)
		if err := e.Start(id); err != nil {
			t.Fatal(err)
		}
	}

	clock.Advance(6 * time.Minute)
	effects := p.Tick()
	if countKind(effects, EffectWarning) != 2 {
		t.Fatalf("warning effects = %v, want two", effects)
	}
	p.dispatch(effects)

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.warnings) != 2 {
		t.Errorf("dispatched warnings = %d, want 2", len(d.warnings))
	}
	// The speaker announcement still goes out after a WhatsApp failure.
	if len(d.announced) != 2 {
		t.Errorf("announcements = %d, want 2", len(d.announced))
	}

	// The warning flag stays set even though dispatch failed.
	for _, id := range []string{"a", "b"} {
		v, _ := e.Get(id)
		if !v.WhatsAppSent5Min {
			t.Errorf("visitor %s lost its warning flag", id)
		}
	}
	clock.Advance(time.Minute)
	if effects := p.Tick(); countKind(effects, EffectWarning) != 0 {
		t.Errorf("failed dispatch was retried: %v", effects)
	}
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	clock := newFakeClock(time.Now())
	p, _, _ := newTestPoller(clock)
	p.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
