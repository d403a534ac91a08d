package riot

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate paces successive match-detail requests. The sync engine and the
// today-report path share one gate so the combined request stream respects
// the API rate limit regardless of which caller is fetching.
type Gate interface {
	Wait(ctx context.Context) error
}

// NewFixedGate returns a gate enforcing a fixed minimum interval between
// requests, with no burst allowance.
func NewFixedGate(interval time.Duration) Gate {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NopGate passes every request through immediately. For tests.
type NopGate struct{}

func (NopGate) Wait(context.Context) error { return nil }
