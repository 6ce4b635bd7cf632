package runtime

import (
	"context"
	"sync"
	"time"

	"breathe-backend/domain/session"
)

// Ticker delivers one value per tick until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock supplies the current time and tickers
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// RecordSink receives the record emitted by a completed session
type RecordSink interface {
	SaveRecord(ctx context.Context, r session.Record) error
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

// Runner drives a State once per second. Pausing stops the ticker, so no
// progress accrues while paused.
type Runner struct {
	mu     sync.Mutex
	state  State
	clock  Clock
	sink   RecordSink
	userID string
	ratio  float64

	ticker Ticker
	stop   chan struct{}
	done   chan struct{}
	closed bool

	// OnTick, when set, observes every state after a tick
	OnTick func(State)
}

// NewRunner wraps a state in setup
func NewRunner(state State, clock Clock, sink RecordSink, userID string, ratio float64) *Runner {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Runner{
		state:  state,
		clock:  clock,
		sink:   sink,
		userID: userID,
		ratio:  ratio,
		done:   make(chan struct{}),
	}
}

// State returns the current state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed once the session is completed or cancelled
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Start begins ticking
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.state.Start(r.clock.Now())
	if err != nil {
		return err
	}
	r.state = next
	r.startTickerLocked()
	return nil
}

// Pause stops ticking and keeps all progress
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.state.Pause()
	if err != nil {
		return err
	}
	r.state = next
	r.stopTickerLocked()
	return nil
}

// Resume restarts ticking from the preserved position
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.state.Resume()
	if err != nil {
		return err
	}
	r.state = next
	r.startTickerLocked()
	return nil
}

// Finish ends the session early
func (r *Runner) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.state.Finish()
	if err != nil {
		return err
	}
	r.state = next
	r.stopTickerLocked()
	r.closeDoneLocked()
	return nil
}

// Cancel discards the session without emitting anything
func (r *Runner) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.state.Cancel()
	if err != nil {
		return err
	}
	r.state = next
	r.stopTickerLocked()
	r.closeDoneLocked()
	return nil
}

// Complete emits the session record to the sink. A sink failure is
// returned but the session stays recorded locally.
func (r *Runner) Complete(ctx context.Context, postMood, rating *int) (session.Record, error) {
	r.mu.Lock()
	next, rec, err := r.state.Complete(r.userID, postMood, rating, r.ratio, r.clock.Now())
	if err != nil {
		r.mu.Unlock()
		return session.Record{}, err
	}
	r.state = next
	r.mu.Unlock()

	if r.sink == nil {
		return rec, nil
	}
	return rec, r.sink.SaveRecord(ctx, rec)
}

func (r *Runner) startTickerLocked() {
	t := r.clock.NewTicker(time.Second)
	stop := make(chan struct{})
	r.ticker, r.stop = t, stop
	go r.loop(t, stop)
}

func (r *Runner) stopTickerLocked() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.stop)
	r.ticker, r.stop = nil, nil
}

func (r *Runner) closeDoneLocked() {
	if !r.closed {
		r.closed = true
		close(r.done)
	}
}

func (r *Runner) loop(t Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			r.mu.Lock()
			if r.stop != stop {
				r.mu.Unlock()
				return
			}
			r.state = r.state.Tick()
			current := r.state
			if current.Status == StatusCompleted {
				r.stopTickerLocked()
				r.closeDoneLocked()
			}
			onTick := r.OnTick
			r.mu.Unlock()

			if onTick != nil {
				onTick(current)
			}
			if current.Status != StatusActive {
				return
			}
		}
	}
}
