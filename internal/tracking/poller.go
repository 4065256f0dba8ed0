package tracking

import (
	"context"
	"log"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// warnThresholdMinutes is the remaining-minutes boundary for the one-time
// guardian warning. The check is a flag-guarded level test (<= threshold),
// not an exact-equality test, so a tick that jumps from 7 to 4 remaining
// still warns.
const warnThresholdMinutes = 5

// Effect kinds produced by a tick.
const (
	EffectWarning      = "warning"
	EffectSessionEnded = "session_ended"
)

// Effect is a notification side effect collected during a tick. Effects
// carry a snapshot of the visitor taken after the state mutation, so the
// dispatcher never reads the live store.
type Effect struct {
	Kind        string
	Visitor     model.Visitor
	MinutesLeft int
}

// Dispatcher performs the outbound side effects of a tick. Outcomes are
// advisory: the poller logs and counts failures but never retries and
// never rolls back the warning flag (lose-the-warning policy).
type Dispatcher interface {
	SendWarning(ctx context.Context, v model.Visitor, minutesLeft int) error
	SendSessionEnded(ctx context.Context, v model.Visitor) error
	Announce(ctx context.Context, v model.Visitor)
}

// Metrics receives tracking engine measurements. A nil collector is
// replaced by a no-op.
type Metrics interface {
	ObserveTick(d time.Duration)
	IncWarningSent()
	IncSessionFinished()
	IncDispatchFailure(kind string)
	SetActiveVisitors(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTick(time.Duration) {}
func (nopMetrics) IncWarningSent() {}
func (nopMetrics) IncSessionFinished() {}
func (nopMetrics) IncDispatchFailure(string) {}
func (nopMetrics) SetActiveVisitors(int) {}

// Poller recomputes remaining minutes for every ACTIVE visitor on a fixed
// interval and triggers the 5-minute warning and session-end effects. One
// tick evaluates the full visitor list; collected effects are handed to
// the dispatcher on a separate goroutine so a slow notification never
// delays the next tick.
type Poller struct {
	engine     *Engine
	dispatcher Dispatcher
	metrics    Metrics
	interval   time.Duration
	nowFunc    func() time.Time
}

// NewPoller builds a poller. Interval values <= 0 fall back to 5 seconds,
// the compromise between the 1s and 10s variants of the original screens.
func NewPoller(engine *Engine, dispatcher Dispatcher, metrics Metrics, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Poller{
		engine:     engine,
		dispatcher: dispatcher,
		metrics:    metrics,
		interval:   interval,
		nowFunc:    time.Now,
	}
}

// Run ticks until the context is cancelled. A tick in progress completes
// its evaluation before the stop is honored.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	log.Printf("tracking: poller running, interval=%s", p.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("tracking: poller stopped")
			return
		case <-ticker.C:
			if effects := p.Tick(); len(effects) > 0 {
				go p.dispatch(effects)
			}
		}
	}
}

// Tick evaluates every visitor once and returns the effects to perform.
// Per-visitor failures are logged and never abort the rest of the pass.
func (p *Poller) Tick() []Effect {
	started := time.Now()
	now := p.nowFunc()
	var effects []Effect
	active := 0

	for _, v := range p.engine.ListAll() {
		if v.Status != model.StatusActive || v.SessionStarted == nil {
			continue
		}
		active++
		computed, ok := p.engine.RefreshRemaining(v.ID, now)
		if !ok {
			continue
		}

		if computed > 0 && computed <= warnThresholdMinutes && !v.WhatsAppSent5Min {
			// MarkWarned is the exactly-once gate; it sets the flags
			// before the effect leaves this loop.
			if p.engine.MarkWarned(v.ID) {
				snap, err := p.engine.Get(v.ID)
				if err != nil {
					log.Printf("tracking: visitor %s vanished mid-tick: %v", v.ID, err)
					continue
				}
				effects = append(effects, Effect{Kind: EffectWarning, Visitor: snap, MinutesLeft: computed})
				p.metrics.IncWarningSent()
			}
		}

		if computed <= 0 {
			if err := p.engine.End(v.ID); err != nil {
				log.Printf("tracking: end visitor %s failed: %v", v.ID, err)
				continue
			}
			snap, err := p.engine.Get(v.ID)
			if err != nil {
				continue
			}
			effects = append(effects, Effect{Kind: EffectSessionEnded, Visitor: snap})
			p.metrics.IncSessionFinished()
		}
	}

	p.metrics.SetActiveVisitors(active)
	p.metrics.ObserveTick(time.Since(started))
	return effects
}

// dispatch performs the collected effects. It runs independently of the
// tick loop; two consecutive ticks may progress time state before a prior
// tick's notifications resolve, which is accepted behavior.
func (p *Poller) dispatch(effects []Effect) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, eff := range effects {
		switch eff.Kind {
		case EffectWarning:
			if err := p.dispatcher.SendWarning(ctx, eff.Visitor, eff.MinutesLeft); err != nil {
				log.Printf("tracking: warning dispatch for %s failed: %v", eff.Visitor.ID, err)
				p.metrics.IncDispatchFailure(EffectWarning)
			}
			p.dispatcher.Announce(ctx, eff.Visitor)
		case EffectSessionEnded:
			if err := p.dispatcher.SendSessionEnded(ctx, eff.Visitor); err != nil {
				log.Printf("tracking: session-ended dispatch for %s failed: %v", eff.Visitor.ID, err)
				p.metrics.IncDispatchFailure(EffectSessionEnded)
			}
		}
	}
}
