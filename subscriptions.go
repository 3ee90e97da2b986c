package minimod

import (
	"context"
	"fmt"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// SubscriptionChangeCallback receives the mod id affected and a change
// direction (+1 subscribed, -1 unsubscribed).
type SubscriptionChangeCallback func(modID uint64, change int)

// Subscribe subscribes the authenticated user to a mod.
func (c *Client) Subscribe(ctx context.Context, gameID, modID uint64, cb SubscriptionChangeCallback) bool {
	return c.changeSubscription(ctx, netw.POST, 201, gameID, modID, +1, cb)
}

// Unsubscribe unsubscribes the authenticated user from a mod.
func (c *Client) Unsubscribe(ctx context.Context, gameID, modID uint64, cb SubscriptionChangeCallback) bool {
	return c.changeSubscription(ctx, netw.DELETE, 204, gameID, modID, -1, cb)
}

func (c *Client) changeSubscription(ctx context.Context, verb netw.Verb, successStatus int, gameID, modID uint64, change int, cb SubscriptionChangeCallback) bool {
	if gameID == 0 || modID == 0 {
		c.setLastError(errPrecondition("subscription change requires a nonzero gameID and modID"))
		cb(modID, 0)
		return false
	}
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("subscription change requires authentication"))
		cb(modID, 0)
		return false
	}

	headers := c.authenticatedHeaders()
	if verb == netw.POST {
		headers = c.authenticatedFormHeaders()
	}

	req := dispatch.Request{
		Verb:            verb,
		URI:             c.bearerURL(fmt.Sprintf("/games/%d/mods/%d/subscribe", gameID, modID), ""),
		Headers:         headers,
		UsesBearerToken: true,
		SuccessStatus:   successStatus,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(modID, 0)
			return
		}
		cb(modID, change)
	})
	return true
}

// GetSubscriptions retrieves the authenticated user's subscribed mods.
func (c *Client) GetSubscriptions(ctx context.Context, filter string, cb ModsCallback) bool {
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("GetSubscriptions requires authentication"))
		cb(nil, Pagination{})
		return false
	}

	req := dispatch.Request{
		Verb:            netw.GET,
		URI:             c.bearerURL("/me/subscribed", filter),
		Headers:         c.authenticatedHeaders(),
		UsesBearerToken: true,
		SuccessStatus:   200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil, Pagination{})
			return
		}
		mods := make([]Mod, len(r.List))
		for i, d := range r.List {
			mods[i] = populateMod(d)
		}
		cb(mods, Pagination(r.Pagination))
	})
	return true
}
