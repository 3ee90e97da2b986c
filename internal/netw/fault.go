package netw

import (
	"context"
	"io"
	"math/rand/v2"
	"time"
)

// FaultConfig configures a FaultInjector: error_rate as a percentage in
// [0,100], and a uniform delay range in milliseconds with MaxDelay >=
// MinDelay.
type FaultConfig struct {
	ErrorRate int
	MinDelay  int
	MaxDelay  int
}

// FaultInjector wraps a Transport and, per request, can short-circuit with
// a synthetic 500 and/or delay completion. A Client installs it only when
// Options.Fault is set and Environment is Test; the demo harness does not
// set it.
type FaultInjector struct {
	Config FaultConfig
	Next   Transport
}

func NewFaultInjector(cfg FaultConfig, next Transport) *FaultInjector {
	return &FaultInjector{Config: cfg, Next: next}
}

func (f *FaultInjector) Request(ctx context.Context, verb Verb, uri string, headers RequestHeaders, body []byte, dest io.Writer, done Complete) {
	if rand.IntN(100) < f.Config.ErrorRate {
		f.sleep()
		done(transportFailure())
		return
	}

	f.Next.Request(ctx, verb, uri, headers, body, dest, func(resp *Response) {
		f.sleep()
		done(resp)
	})
}

func (f *FaultInjector) sleep() {
	if f.Config.MaxDelay <= 0 {
		return
	}
	lo, hi := f.Config.MinDelay, f.Config.MaxDelay
	if hi < lo {
		hi = lo
	}
	delay := lo
	if hi > lo {
		delay = lo + rand.IntN(hi-lo+1)
	}
	time.Sleep(time.Duration(delay) * time.Millisecond)
}
