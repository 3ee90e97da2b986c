// Package dispatch wraps a netw.Transport, attaching per-request metadata,
// decoding responses into raw documents, and routing error statuses to the
// dispatcher's two generic recovery actions: rate-limit bookkeeping and
// token/API-key invalidation (spec.md §4.5).
package dispatch

import (
	"context"
	"io"
	"strconv"
	"time"

	"minimod/internal/document"
	"minimod/internal/netw"
)

// Recovery is implemented by the process state the dispatcher mutates on
// generic error recovery. Implementations must be safe for concurrent use:
// recovery runs on whichever worker goroutine completed the request.
type Recovery interface {
	ClearToken() error
	SetRateLimitedUntil(t time.Time)
	MarkAPIKeyInvalid()
}

// Request describes a single dispatched call.
type Request struct {
	Verb            netw.Verb
	URI             string
	Headers         netw.RequestHeaders
	Body            []byte
	Dest            io.Writer // non-nil streams the body (e.g. modfile download)
	UsesBearerToken bool
	SuccessStatus   int // 200 for reads, 201 for create, 204 for delete
}

// Pagination mirrors spec.md §3's Pagination entity, built from a list
// endpoint's top-level result_offset/result_limit/result_total fields.
type Pagination struct {
	Offset int64
	Limit  int64
	Total  int64
}

// Result is delivered to the caller's continuation exactly once. On any
// status other than req.SuccessStatus, Success is false, List/Doc are
// empty/nil, and Pagination is the zero value, per spec.md §4.5 step 5.
type Result struct {
	StatusCode int
	Success    bool
	Doc        *document.Doc   // populated for singleton-shaped success
	List       []*document.Doc // populated for list-shaped success
	Pagination Pagination
}

// Dispatcher is the request engine façade endpoints delegate to.
type Dispatcher struct {
	Transport netw.Transport
	Recovery  Recovery
}

func New(t netw.Transport, r Recovery) *Dispatcher {
	return &Dispatcher{Transport: t, Recovery: r}
}

// Do dispatches req and invokes done exactly once, after applying generic
// error recovery and decoding the response body. Streamed requests (req.Dest
// != nil) skip JSON decoding entirely; done still fires with StatusCode and
// Success so the installation manager can gate its next state-machine step.
func (d *Dispatcher) Do(ctx context.Context, req Request, done func(Result)) {
	d.Transport.Request(ctx, req.Verb, req.URI, req.Headers, req.Body, req.Dest, func(resp *netw.Response) {
		d.recover(resp, req.UsesBearerToken)

		success := resp.StatusCode == req.SuccessStatus
		if req.Dest != nil || !success {
			done(Result{StatusCode: resp.StatusCode, Success: success})
			return
		}

		done(d.decode(resp))
	})
}

// recover runs the two generic recoveries spec.md §4.5 step 1 mandates,
// before any body decoding.
func (d *Dispatcher) recover(resp *netw.Response, usesBearerToken bool) {
	if resp.StatusCode == 429 {
		seconds := int64(0)
		if resp.Headers != nil {
			if v, ok := resp.Headers.Get("X-RateLimit-RetryAfter"); ok {
				seconds, _ = strconv.ParseInt(v, 10, 64)
			}
		}
		d.Recovery.SetRateLimitedUntil(time.Now().Add(time.Duration(seconds) * time.Second))
		return
	}

	if resp.StatusCode == 401 {
		if usesBearerToken {
			_ = d.Recovery.ClearToken()
		} else {
			d.Recovery.MarkAPIKeyInvalid()
		}
	}
}

// decode parses resp.Body and determines list-vs-singleton shape from the
// presence of a top-level "data" array, per spec.md §4.5 step 2.
func (d *Dispatcher) decode(resp *netw.Response) Result {
	// Creation (201) and deletion (204) responses may carry no body; the
	// matching status alone is the success signal.
	if len(resp.Body) == 0 {
		return Result{StatusCode: resp.StatusCode, Success: true}
	}

	doc, err := document.Parse(resp.Body)
	if err != nil {
		return Result{StatusCode: resp.StatusCode, Success: false}
	}

	items := doc.Array("data")
	if items != nil {
		return Result{
			StatusCode: resp.StatusCode,
			Success:    true,
			List:       items,
			Pagination: Pagination{
				Offset: doc.GetInt("result_offset"),
				Limit:  doc.GetInt("result_limit"),
				Total:  doc.GetInt("result_total"),
			},
		}
	}

	return Result{
		StatusCode: resp.StatusCode,
		Success:    true,
		Doc:        doc,
	}
}
