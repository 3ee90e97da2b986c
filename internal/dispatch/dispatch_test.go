package dispatch

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"minimod/internal/netw"
)

type fakeTransport struct {
	resp *netw.Response
}

func (f *fakeTransport) Request(ctx context.Context, verb netw.Verb, uri string, headers netw.RequestHeaders, body []byte, dest io.Writer, done netw.Complete) {
	done(f.resp)
}

type fakeRecovery struct {
	mu               sync.Mutex
	clearedToken     bool
	rateLimitedUntil time.Time
	apiKeyInvalid    bool
}

func (f *fakeRecovery) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedToken = true
	return nil
}

func (f *fakeRecovery) SetRateLimitedUntil(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rateLimitedUntil = t
}

func (f *fakeRecovery) MarkAPIKeyInvalid() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKeyInvalid = true
}

func run(t *testing.T, d *Dispatcher, req Request) Result {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(1)
	var got Result
	d.Do(context.Background(), req, func(r Result) {
		got = r
		wg.Done()
	})
	wg.Wait()
	return got
}

func TestDispatchListShape(t *testing.T) {
	body := []byte(`{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"result_offset":0,"result_limit":100,"result_total":2}`)
	rec := &fakeRecovery{}
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 200, Body: body}}, rec)

	got := run(t, d, Request{SuccessStatus: 200})

	if !got.Success {
		t.Fatalf("expected success")
	}
	if len(got.List) != 2 {
		t.Fatalf("List len = %d; want 2", len(got.List))
	}
	if got.Pagination.Total != 2 {
		t.Errorf("Pagination.Total = %d; want 2", got.Pagination.Total)
	}
}

func TestDispatchSingletonShape(t *testing.T) {
	body := []byte(`{"id":1,"name":"solo"}`)
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 200, Body: body}}, &fakeRecovery{})

	got := run(t, d, Request{SuccessStatus: 200})

	if !got.Success || got.Doc == nil {
		t.Fatalf("expected singleton success, got %+v", got)
	}
	if got.Doc.GetInt("id") != 1 {
		t.Errorf("Doc.GetInt(id) = %d; want 1", got.Doc.GetInt("id"))
	}
}

func TestDispatchNonSuccessYieldsEmptyResult(t *testing.T) {
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 404, Body: []byte(`{"data":[{"id":1}]}`)}}, &fakeRecovery{})

	got := run(t, d, Request{SuccessStatus: 200})

	if got.Success {
		t.Errorf("expected failure")
	}
	if got.List != nil || got.Doc != nil {
		t.Errorf("expected no records on non-success status, got %+v", got)
	}
}

func TestDispatch429SetsRateLimit(t *testing.T) {
	headers := netw.ParseHeaders([]byte("X-RateLimit-RetryAfter: 30\r\n"))
	rec := &fakeRecovery{}
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 429, Headers: headers}}, rec)

	before := time.Now()
	run(t, d, Request{SuccessStatus: 200})

	if rec.rateLimitedUntil.Before(before.Add(29 * time.Second)) {
		t.Errorf("rateLimitedUntil = %v; want >= 30s from now", rec.rateLimitedUntil)
	}
}

func TestDispatch401ClearsTokenWhenBearerAuthenticated(t *testing.T) {
	rec := &fakeRecovery{}
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 401}}, rec)

	run(t, d, Request{SuccessStatus: 200, UsesBearerToken: true})

	if !rec.clearedToken {
		t.Errorf("expected token cleared on 401 with bearer auth")
	}
	if rec.apiKeyInvalid {
		t.Errorf("apiKeyInvalid should not be set when bearer-authenticated")
	}
}

func TestDispatch401MarksAPIKeyInvalidWhenNotBearerAuthenticated(t *testing.T) {
	rec := &fakeRecovery{}
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 401}}, rec)

	run(t, d, Request{SuccessStatus: 200, UsesBearerToken: false})

	if !rec.apiKeyInvalid {
		t.Errorf("expected apiKeyInvalid set on 401 without bearer auth")
	}
	if rec.clearedToken {
		t.Errorf("token should not be cleared when not bearer-authenticated")
	}
}

func TestDispatchStreamedSkipsDecoding(t *testing.T) {
	d := New(&fakeTransport{resp: &netw.Response{StatusCode: 200, BodyLen: 100}}, &fakeRecovery{})

	got := run(t, d, Request{SuccessStatus: 200, Dest: io.Discard})

	if !got.Success {
		t.Errorf("expected success")
	}
	if got.Doc != nil || got.List != nil {
		t.Errorf("streamed result should carry no parsed document")
	}
}
