package checkout

import (
	"sync"

	"passhub/internal/product"
)

// State is the phase of a checkout attempt.
type State string

const (
	StateIdle            State = "IDLE"
	StateSubmitting      State = "SUBMITTING"
	StatePaymentRequired State = "PAYMENT_REQUIRED"
	StateCompleted       State = "COMPLETED"
	StateFailed          State = "FAILED"
)

// Event is a state transition published by the orchestrator. Subscribers
// (the email worker, metrics) react to terminal states; they never influence
// the checkout itself.
type Event struct {
	State      State
	UserID     int
	Product    *product.Product
	Instrument InstrumentKind
	Notice     Notice
	OrderID    string
	Failure    *Failure
}

// Emitter fans checkout events out to subscribers. Subscriptions are
// registered at startup; Emit runs handlers synchronously in registration
// order, so handlers must not block on slow work.
type Emitter struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, fn := range e.subs {
		fn(ev)
	}
}
