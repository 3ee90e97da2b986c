package minimod

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"minimod/internal/dispatch"
	"minimod/internal/install"
	"minimod/internal/netw"
	"minimod/internal/tokenstore"
)

// Environment selects which of the two fixed base endpoints a Client
// targets.
type Environment int

const (
	Live Environment = iota
	Test
)

var endpoints = [2]string{
	"https://api.mod.io/v1",
	"https://api.test.mod.io/v1",
}

var apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

// Options configures a Client at construction time, mirroring spec.md
// §3's process-state fields that are fixed for the life of the instance.
type Options struct {
	Environment Environment
	APIKey      string
	RootPath    string
	Unzip       bool

	// Fault is an optional test-environment fault injector; nil in
	// production use. Only meaningful when Environment == Test.
	Fault *netw.FaultConfig
}

// Client is a single logged-in user's connection to the service. It is
// created by New and released by Close; calling any method outside that
// window is undefined, per spec.md §5.
type Client struct {
	apiKey   string
	rootPath string
	baseURL  string

	tokens *tokenstore.Store
	disp   *dispatch.Dispatcher
	trans  netw.Transport
	mgr    *install.Manager

	mu               sync.RWMutex
	rateLimitedUntil time.Time
	apiKeyInvalid    bool
	lastErr          *Error
}

// New validates Options and constructs a Client. Configuration errors
// (spec.md §7) are surfaced synchronously here: a malformed API key (not
// exactly 32 alphanumeric characters) or an unusable root path.
func New(opts Options) (*Client, error) {
	if !apiKeyPattern.MatchString(opts.APIKey) {
		return nil, errConfig("api key must be exactly 32 alphanumeric characters")
	}
	if opts.RootPath == "" {
		return nil, errConfig("root path must not be empty")
	}

	root := strings.TrimRight(opts.RootPath, "/\\")

	var trans netw.Transport = netw.NewHTTPTransport()
	if opts.Environment == Test && opts.Fault != nil {
		trans = netw.NewFaultInjector(*opts.Fault, trans)
	}

	c := &Client{
		apiKey:   opts.APIKey,
		rootPath: root,
		baseURL:  endpoints[opts.Environment],
		tokens:   tokenstore.New(root),
		trans:    trans,
	}
	c.disp = dispatch.New(trans, c)

	if err := c.tokens.Load(); err != nil {
		return nil, fmt.Errorf("minimod: loading token: %w", err)
	}

	c.mgr = install.New(root, opts.Unzip, c, c)

	return c, nil
}

// Close releases the Client. The caller must ensure no worker has an
// outstanding continuation before calling Close, per spec.md §5.
func (c *Client) Close() {}

// ClearToken satisfies dispatch.Recovery: deletes the persisted token and
// the in-memory copy, invoked when the dispatcher observes a 401 on a
// bearer-authenticated call.
func (c *Client) ClearToken() error {
	return c.tokens.Clear()
}

// SetRateLimitedUntil satisfies dispatch.Recovery.
func (c *Client) SetRateLimitedUntil(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rateLimitedUntil = t
}

// MarkAPIKeyInvalid satisfies dispatch.Recovery.
func (c *Client) MarkAPIKeyInvalid() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKeyInvalid = true
}

// IsRateLimited returns the number of seconds remaining in the rate-limit
// window, or a negative value when the service is not currently rate
// limited.
func (c *Client) IsRateLimited() int64 {
	c.mu.RLock()
	until := c.rateLimitedUntil
	c.mu.RUnlock()

	remaining := time.Until(until)
	if remaining <= 0 {
		return -1
	}
	return int64(remaining / time.Second)
}

// IsAPIKeyInvalid reports whether the dispatcher has observed a 401 on an
// unauthenticated (api_key) call.
func (c *Client) IsAPIKeyInvalid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKeyInvalid
}

// IsAuthenticated reports whether a bearer token is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

// setLastError records a synchronous precondition failure, surfaced via
// LastError. Calls that fail a precondition check (bad arguments, missing
// authentication) before ever reaching the dispatcher report the reason
// here, since their callback signatures carry no error.
func (c *Client) setLastError(err *Error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// LastError returns the most recent synchronous precondition failure, or
// nil if none has occurred yet.
func (c *Client) LastError() *Error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Deauthenticate clears the local token and its persisted file.
func (c *Client) Deauthenticate() error {
	return c.tokens.Clear()
}

// unauthenticatedHeaders is the fixed header set for api_key calls, plus a
// fresh correlation id for local log lines (never interpreted by the
// dispatcher or the remote service).
func unauthenticatedHeaders() netw.RequestHeaders {
	var h netw.RequestHeaders
	h = netw.AddHeader(h, "Accept", "application/json")
	h = netw.AddHeader(h, "X-Request-Id", requestID())
	return h
}

// authenticatedHeaders attaches the bearer token, plus a request
// correlation id used only for local log correlation (never sent to the
// dispatcher's decision logic).
func (c *Client) authenticatedHeaders() netw.RequestHeaders {
	h := unauthenticatedHeaders()
	h = netw.AddHeader(h, "Authorization", c.tokens.BearerHeader())
	return h
}

// formHeaders is unauthenticatedHeaders plus the Content-Type every
// urlencoded-body POST requires, matching original_source/minimod.c's
// emailrequest/emailexchange/ratings/subscribe requests.
func formHeaders() netw.RequestHeaders {
	return netw.AddHeader(unauthenticatedHeaders(), "Content-Type", "application/x-www-form-urlencoded")
}

// authenticatedFormHeaders is authenticatedHeaders plus the same
// urlencoded-body Content-Type, for bearer-authenticated POSTs.
func (c *Client) authenticatedFormHeaders() netw.RequestHeaders {
	return netw.AddHeader(c.authenticatedHeaders(), "Content-Type", "application/x-www-form-urlencoded")
}

// requestID returns a fresh correlation id for local log lines.
func requestID() string {
	return uuid.NewString()
}

// apiKeyURL builds a GET URL for an unauthenticated endpoint, appending
// the fixed api_key parameter and the caller's raw filter fragment
// verbatim, per spec.md §4.9/§6 scenario 3.
func (c *Client) apiKeyURL(path, filter string) string {
	return netw.WithAPIKey(c.baseURL+path, c.apiKey, filter)
}

// bearerURL builds a GET URL for a bearer-authenticated endpoint. No
// api_key parameter is appended; authentication rides on the
// Authorization header instead.
func (c *Client) bearerURL(path, filter string) string {
	if filter == "" {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + filter
}
