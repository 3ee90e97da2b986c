package netw

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	resp *Response
}

func (f *fakeTransport) Request(ctx context.Context, verb Verb, uri string, headers RequestHeaders, body []byte, dest io.Writer, done Complete) {
	done(f.resp)
}

func TestFaultInjectorAlwaysErrors(t *testing.T) {
	fi := NewFaultInjector(FaultConfig{ErrorRate: 100}, &fakeTransport{resp: &Response{StatusCode: 200, Body: []byte("real")}})

	var wg sync.WaitGroup
	wg.Add(1)
	var got *Response
	fi.Request(context.Background(), GET, "http://x", nil, nil, nil, func(r *Response) {
		got = r
		wg.Done()
	})
	wg.Wait()

	if got.StatusCode != 500 {
		t.Errorf("StatusCode = %d; want 500", got.StatusCode)
	}
	if len(got.Body) != 0 {
		t.Errorf("Body = %q; want empty", got.Body)
	}
}

func TestFaultInjectorNeverErrorsPassesThrough(t *testing.T) {
	fi := NewFaultInjector(FaultConfig{ErrorRate: 0}, &fakeTransport{resp: &Response{StatusCode: 200, Body: []byte("real")}})

	var wg sync.WaitGroup
	wg.Add(1)
	var got *Response
	fi.Request(context.Background(), GET, "http://x", nil, nil, nil, func(r *Response) {
		got = r
		wg.Done()
	})
	wg.Wait()

	if got.StatusCode != 200 || string(got.Body) != "real" {
		t.Errorf("got %v; want the real response passed through", got)
	}
}

func TestFaultInjectorDelayBounds(t *testing.T) {
	fi := NewFaultInjector(FaultConfig{ErrorRate: 0, MinDelay: 10, MaxDelay: 20}, &fakeTransport{resp: &Response{StatusCode: 200}})

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(1)
	fi.Request(context.Background(), GET, "http://x", nil, nil, nil, func(r *Response) {
		wg.Done()
	})
	wg.Wait()
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("elapsed = %v; want at least MinDelay", elapsed)
	}
}
