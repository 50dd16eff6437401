package gateway

import (
	"context"
	"math/rand"
	"time"

	"mojapay.io/mobile-money/pkg/recipient"
)

const (
	DefaultSimMinDelay    = 500 * time.Millisecond
	DefaultSimMaxDelay    = 1500 * time.Millisecond
	DefaultSimSuccessRate = 0.9
)

var _ Gateway = &SimGateway{}

type sleepFunc = func(context.Context, time.Duration) error

type SimConfig struct {
	// MinDelay and MaxDelay bound the uniformly distributed latency of a
	// simulated submission.
	MinDelay time.Duration
	MaxDelay time.Duration

	// SuccessRate is the probability a submission succeeds, clamped to
	// [0, 1]. Zero makes every submission fail; DefaultSimConfig uses
	// DefaultSimSuccessRate.
	SuccessRate float64

	// test hook used to control outcomes and delays
	rand func() float64

	// test hook used for sleeping so we aren't dependent on real time
	sleep sleepFunc
}

// DefaultSimConfig returns the demo settings: 0.5 to 1.5s latency and 90%
// success.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		MinDelay:    DefaultSimMinDelay,
		MaxDelay:    DefaultSimMaxDelay,
		SuccessRate: DefaultSimSuccessRate,
	}
}

// SimGateway simulates a payment backend. No real payment happens.
type SimGateway struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	successRate float64
	rand        func() float64
	sleep       sleepFunc
}

func NewSimGateway(config SimConfig) *SimGateway {
	config.SuccessRate = min(max(config.SuccessRate, 0), 1)
	if config.MaxDelay < config.MinDelay {
		config.MaxDelay = config.MinDelay
	}
	if config.rand == nil {
		config.rand = rand.Float64
	}
	if config.sleep == nil {
		config.sleep = sleepFor
	}
	return &SimGateway{
		minDelay:    config.MinDelay,
		maxDelay:    config.MaxDelay,
		successRate: config.SuccessRate,
		rand:        config.rand,
		sleep:       config.sleep,
	}
}

func (g *SimGateway) String() string {
	return Sim.String()
}

func (g *SimGateway) Submit(ctx context.Context, r recipient.Recipient) (bool, error) {
	delay := g.minDelay + time.Duration(g.rand()*float64(g.maxDelay-g.minDelay))
	if err := g.sleep(ctx, delay); err != nil {
		return false, Error.Wrap(err)
	}
	return g.rand() < g.successRate, nil
}

func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
