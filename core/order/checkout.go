package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrPaymentFailed      = errors.New("payment could not be processed")
)

// Phase is the state of the checkout form.
type Phase int

const (
	Building Phase = iota
	Submitting
	Completed
)

func (p Phase) String() string {
	switch p {
	case Building:
		return "building"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, ph := range []Phase{Building, Submitting, Completed} {
		if ph.String() == string(text) {
			*p = ph
			return nil
		}
	}
	return errors.Errorf("unknown checkout phase %q", text)
}

// Checkout is the order form state machine: Building -> Submitting -> Completed.
// A failed submission goes back to Building with the cart untouched.
// It is not safe for concurrent use; the owner serializes access.
type Checkout struct {
	phase Phase
}

func (c *Checkout) Phase() Phase { return c.phase }

// Begin starts a submission. A second submission is rejected while one is pending.
func (c *Checkout) Begin() error {
	if c.phase == Submitting {
		return ErrCheckoutInProgress
	}
	c.phase = Submitting
	return nil
}

func (c *Checkout) Fail() {
	if c.phase == Submitting {
		c.phase = Building
	}
}

func (c *Checkout) Complete() {
	if c.phase == Submitting {
		c.phase = Completed
	}
}

// Touch records a cart mutation: a completed checkout starts over.
func (c *Checkout) Touch() {
	if c.phase == Completed {
		c.phase = Building
	}
}

// Reset forces the Building phase.
func (c *Checkout) Reset() { c.phase = Building }

// Payment is what the gateway is asked to charge.
type Payment struct {
	Method string
	Amount int
	Email  string
}

// Gateway charges a payment and returns its tracking number.
type Gateway interface {
	Charge(ctx context.Context, p Payment) (string, error)
}

// SimulatedGateway waits Delay and always succeeds.
type SimulatedGateway struct {
	Delay time.Duration
}

var _ Gateway = (*SimulatedGateway)(nil)

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay}
}

func (g *SimulatedGateway) Charge(ctx context.Context, _ Payment) (string, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "waiting for gateway")
		}
	}
	return NewTrackingNumber(), nil
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, p Payment) (string, error)

func (f GatewayFunc) Charge(ctx context.Context, p Payment) (string, error) { return f(ctx, p) }
