// internal/delivery/sms.go
package delivery

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// SimulatedSMSGateway stands in for a real SMS provider: an artificial delay
// followed by a fixed random failure rate. Callers must not assume this
// models real delivery semantics.
type SimulatedSMSGateway struct {
	Delay       time.Duration
	FailureRate float64
}

// NewSimulatedSMSGateway returns the reference simulation: 500ms delay, 10%
// failure.
func NewSimulatedSMSGateway() *SimulatedSMSGateway {
	return &SimulatedSMSGateway{Delay: 500 * time.Millisecond, FailureRate: 0.1}
}

func (g *SimulatedSMSGateway) Send(ctx context.Context, msg Message) error {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if rand.Float64() < g.FailureRate {
		return fmt.Errorf("simulated send failure for %s", msg.To)
	}
	return nil
}
