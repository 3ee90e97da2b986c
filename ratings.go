package minimod

import (
	"context"
	"fmt"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// RateCallback receives whether the rating was accepted.
type RateCallback func(success bool)

// Rate submits a +1 or -1 rating for a mod. rating must be nonzero;
// authentication is required.
func (c *Client) Rate(ctx context.Context, gameID, modID uint64, rating int, cb RateCallback) bool {
	if gameID == 0 || modID == 0 || rating == 0 {
		c.setLastError(errPrecondition("Rate requires a nonzero gameID, modID, and rating"))
		cb(false)
		return false
	}
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("Rate requires authentication"))
		cb(false)
		return false
	}

	req := dispatch.Request{
		Verb:            netw.POST,
		URI:             c.bearerURL(fmt.Sprintf("/games/%d/mods/%d/ratings", gameID, modID), ""),
		Headers:         c.authenticatedFormHeaders(),
		Body:            []byte(fmt.Sprintf("rating=%d", rating)),
		UsesBearerToken: true,
		SuccessStatus:   201,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		cb(r.Success)
	})
	return true
}

// RatingsCallback receives the authenticated user's ratings.
type RatingsCallback func(ratings []Rating)

// GetRatings retrieves the authenticated user's ratings, optionally
// narrowed by filter.
func (c *Client) GetRatings(ctx context.Context, filter string, cb RatingsCallback) bool {
	if !c.tokens.IsAuthenticated() {
		c.setLastError(errPrecondition("GetRatings requires authentication"))
		cb(nil)
		return false
	}

	req := dispatch.Request{
		Verb:            netw.GET,
		URI:             c.bearerURL("/me/ratings", filter),
		Headers:         c.authenticatedHeaders(),
		UsesBearerToken: true,
		SuccessStatus:   200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil)
			return
		}
		ratings := make([]Rating, len(r.List))
		for i, d := range r.List {
			ratings[i] = populateRating(d)
		}
		cb(ratings)
	})
	return true
}
