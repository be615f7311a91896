package agent

import (
	"context"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
)

// Booker runs a booking attempt.  booking.Engine implements it.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (booking.Outcome, error)
}

// Intake takes a raw agent tool call all the way to a booking result.
type Intake struct {
	matcher *Matcher
	booker  Booker
}

func NewIntake(m *Matcher, b Booker) *Intake {
	if m == nil || b == nil {
		panic("agent.NewIntake: nil dependency")
	}
	return &Intake{matcher: m, booker: b}
}

// Handle parses, normalizes and matches raw, then books it.  Errors before
// the booking engine runs are returned as is; the engine's own errors are
// reported through the outcome.
func (in *Intake) Handle(ctx context.Context, raw []byte) (booking.Result, error) {
	f, err := Parse(raw)
	if err != nil {
		return failed(err), err
	}
	req, err := in.matcher.Resolve(ctx, Normalize(f))
	if err != nil {
		return failed(err), err
	}
	out, err := in.booker.Book(ctx, req)
	return out.Result(), err
}

func failed(err error) booking.Result {
	return booking.Outcome{State: booking.Rejected, Err: err}.Result()
}
