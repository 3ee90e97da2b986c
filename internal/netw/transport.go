package netw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Verb is one of the four HTTP methods the library issues.
type Verb string

const (
	GET    Verb = http.MethodGet
	POST   Verb = http.MethodPost
	PUT    Verb = http.MethodPut
	DELETE Verb = http.MethodDelete
)

// Response is the completed result of a Transport.Request call, delivered
// to the caller's completion function. Body is populated only for
// in-memory requests; for streamed requests the caller's destination
// io.Writer already holds the data and Body is nil.
type Response struct {
	Body       []byte
	BodyLen    int
	StatusCode int
	Headers    *Headers
}

// transportFailure is the canonical status-500-empty-body-nil-headers
// response produced whenever a request cannot be completed at all,
// matching the fault-injector's synthetic-error shape (spec.md §4.3/§4.4).
func transportFailure() *Response {
	return &Response{StatusCode: 500}
}

// Complete is the continuation a Transport invokes exactly once per
// Request call, on the worker goroutine that serviced it.
type Complete func(*Response)

// Transport schedules HTTP requests without blocking the caller; the
// result is delivered later via the Complete callback, on a dedicated
// goroutine for that request. A Transport must not share mutable state
// across requests other than what's needed to hand off the completion.
type Transport interface {
	// Request dispatches verb/uri with the given headers and optional
	// body. When dest is non-nil the response body is streamed into it
	// (no seeking, never closed by the Transport); otherwise the body is
	// accumulated into Response.Body. done is invoked exactly once.
	Request(ctx context.Context, verb Verb, uri string, headers RequestHeaders, body []byte, dest io.Writer, done Complete)
}

// HTTPTransport is the default Transport, backed by net/http. It follows
// redirects transparently (the stdlib http.Client default policy) and
// gives every Request call its own goroutine.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns an HTTPTransport with sane timeouts for a
// client library that must never hang a worker goroutine forever.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (t *HTTPTransport) Request(ctx context.Context, verb Verb, uri string, headers RequestHeaders, body []byte, dest io.Writer, done Complete) {
	go t.do(ctx, verb, uri, headers, body, dest, done)
}

func (t *HTTPTransport) do(ctx context.Context, verb Verb, uri string, headers RequestHeaders, body []byte, dest io.Writer, done Complete) {
	var reqBody io.Reader
	switch verb {
	case POST, PUT:
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, string(verb), uri, reqBody)
	if err != nil {
		done(transportFailure())
		return
	}
	headers.Apply(req.Header.Set)

	resp, err := t.Client.Do(req)
	if err != nil {
		done(transportFailure())
		return
	}
	defer func() { _ = resp.Body.Close() }()

	hdrs := headersFromHTTP(resp.Header)

	if dest != nil {
		n, err := io.Copy(dest, resp.Body)
		if err != nil {
			done(transportFailure())
			return
		}
		done(&Response{
			BodyLen:    int(n),
			StatusCode: resp.StatusCode,
			Headers:    hdrs,
		})
		return
	}

	buf := new(bytes.Buffer) // grows by doubling, satisfying spec.md's body policy
	if _, err := io.Copy(buf, resp.Body); err != nil {
		done(transportFailure())
		return
	}

	done(&Response{
		Body:       buf.Bytes(),
		BodyLen:    buf.Len(),
		StatusCode: resp.StatusCode,
		Headers:    hdrs,
	})
}

// headersFromHTTP adapts a parsed http.Header into our own order-
// preserving, case-insensitive Headers type.
func headersFromHTTP(h http.Header) *Headers {
	out := &Headers{}
	for key, values := range h {
		for _, v := range values {
			out.entries = append(out.entries, kv{key: key, value: v})
		}
	}
	return out
}

// WithAPIKey appends "?api_key=<key>&<filter>" to base, matching spec.md
// §6 scenario 3 literally: the trailing '&' remains even when filter is
// empty, since filter is appended verbatim after the fixed api_key
// parameter rather than conditionally joined.
func WithAPIKey(base, apiKey, filter string) string {
	return base + "?api_key=" + apiKey + "&" + filter
}

// String renders a Response for debugging/logging only.
func (r *Response) String() string {
	return fmt.Sprintf("status=%d bodyLen=%d", r.StatusCode, r.BodyLen)
}
