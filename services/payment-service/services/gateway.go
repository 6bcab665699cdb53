package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopswift/marketplace/services/common/money"

	"github.com/google/uuid"
)

const (
	DefaultGatewayDelay = time.Second
	DefaultSuccessRate  = 0.9
)

type ChargeResult struct {
	Success       bool
	TransactionID string
}

// Gateway settles an amount against a payment method.
type Gateway interface {
	Charge(ctx context.Context, amount money.Money, paymentMethod string) (ChargeResult, error)
}

// SimulatedGateway stands in for a card processor: it waits, then succeeds
// with probability SuccessRate.
type SimulatedGateway struct {
	Delay       time.Duration
	SuccessRate float64
	// Rand returns a draw in [0,1). Defaults to math/rand.
	Rand func() float64
}

func NewSimulatedGateway(delay time.Duration, successRate float64) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, SuccessRate: successRate, Rand: rand.Float64}
}

func (g *SimulatedGateway) Charge(ctx context.Context, _ money.Money, _ string) (ChargeResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ChargeResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	draw := g.Rand
	if draw == nil {
		draw = rand.Float64
	}
	return ChargeResult{
		Success:       draw() < g.SuccessRate,
		TransactionID: uuid.NewString(),
	}, nil
}
