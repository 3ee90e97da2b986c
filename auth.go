package minimod

import (
	"context"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// EmailRequestCallback receives whether an email exchange code was sent.
type EmailRequestCallback func(success bool)

// EmailRequest asks the service to email a one-time security code to
// email.
func (c *Client) EmailRequest(ctx context.Context, email string, cb EmailRequestCallback) {
	body := "api_key=" + c.apiKey + "&email=" + netw.PercentEncodeString(email)

	req := dispatch.Request{
		Verb:          netw.POST,
		URI:           c.baseURL + "/oauth/emailrequest",
		Headers:       formHeaders(),
		Body:          []byte(body),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		cb(r.Success)
	})
}

// EmailExchangeCallback receives the freshly issued bearer token, or ""
// and false on failure.
type EmailExchangeCallback func(token string, ok bool)

// EmailExchange exchanges a security code (obtained out-of-band after
// EmailRequest) for a bearer token, then persists it.
func (c *Client) EmailExchange(ctx context.Context, securityCode string, cb EmailExchangeCallback) {
	body := "api_key=" + c.apiKey + "&security_code=" + netw.PercentEncodeString(securityCode)

	req := dispatch.Request{
		Verb:          netw.POST,
		URI:           c.baseURL + "/oauth/emailexchange",
		Headers:       formHeaders(),
		Body:          []byte(body),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success || r.Doc == nil {
			cb("", false)
			return
		}

		token := r.Doc.GetString("access_token")
		if token == "" {
			cb("", false)
			return
		}
		if err := c.tokens.Save(token); err != nil {
			cb("", false)
			return
		}
		cb(token, true)
	})
}

// MeCallback receives the authenticated user's profile.
type MeCallback func(user *User, ok bool)

// Me retrieves the profile of the currently authenticated user. Requires
// authentication; returns false synchronously without issuing a request
// otherwise.
func (c *Client) Me(ctx context.Context, cb MeCallback) bool {
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("Me requires authentication"))
		return false
	}

	req := dispatch.Request{
		Verb:            netw.GET,
		URI:             c.bearerURL("/me", ""),
		Headers:         c.authenticatedHeaders(),
		UsesBearerToken: true,
		SuccessStatus:   200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success || r.Doc == nil {
			cb(nil, false)
			return
		}
		user := populateUser(r.Doc)
		cb(&user, true)
	})
	return true
}

// MeEvents retrieves events affecting the authenticated user.
func (c *Client) MeEvents(ctx context.Context, filter string, cb func(events []Event)) bool {
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("MeEvents requires authentication"))
		cb(nil)
		return false
	}

	req := dispatch.Request{
		Verb:            netw.GET,
		URI:             c.bearerURL("/me/events", filter),
		Headers:         c.authenticatedHeaders(),
		UsesBearerToken: true,
		SuccessStatus:   200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil)
			return
		}
		events := make([]Event, len(r.List))
		for i, d := range r.List {
			events[i] = populateEvent(d)
		}
		cb(events)
	})
	return true
}
