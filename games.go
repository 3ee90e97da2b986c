package minimod

import (
	"context"
	"fmt"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// GamesCallback receives the result of GetGames.
type GamesCallback func(games []Game, pagination Pagination)

// GetGames retrieves all available games on the selected environment.
// filter may be empty, in which case the library appends an empty filter
// fragment verbatim (spec.md §6 scenario 3).
func (c *Client) GetGames(ctx context.Context, filter string, cb GamesCallback) {
	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL("/games", filter),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil, Pagination{})
			return
		}
		games := make([]Game, len(r.List))
		for i, d := range r.List {
			games[i] = populateGame(d)
		}
		cb(games, Pagination(r.Pagination))
	})
}

// ModsCallback receives the result of GetMods, GetSubscriptions, and
// related list-of-Mod endpoints.
type ModsCallback func(mods []Mod, pagination Pagination)

// GetMods retrieves mods for gameID; callers must supply a nonzero gameID.
func (c *Client) GetMods(ctx context.Context, gameID uint64, filter string, cb ModsCallback) {
	if gameID == 0 {
		c.setLastError(errPrecondition("GetMods requires a nonzero gameID"))
		cb(nil, Pagination{})
		return
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(fmt.Sprintf("/games/%d/mods", gameID), filter),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
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
}

// GetMod retrieves a single mod by id.
func (c *Client) GetMod(ctx context.Context, gameID, modID uint64, cb func(mod *Mod, ok bool)) {
	if gameID == 0 || modID == 0 {
		c.setLastError(errPrecondition("GetMod requires a nonzero gameID and modID"))
		cb(nil, false)
		return
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(fmt.Sprintf("/games/%d/mods/%d", gameID, modID), ""),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success || r.Doc == nil {
			cb(nil, false)
			return
		}
		mod := populateMod(r.Doc)
		cb(&mod, true)
	})
}

// DependenciesCallback receives mod dependency ids.
type DependenciesCallback func(modIDs []uint64)

// GetDependencies retrieves the dependency list for a mod (spec.md §6,
// supplemented per SPEC_FULL.md §9).
func (c *Client) GetDependencies(ctx context.Context, gameID, modID uint64, cb DependenciesCallback) {
	if gameID == 0 || modID == 0 {
		c.setLastError(errPrecondition("GetDependencies requires a nonzero gameID and modID"))
		cb(nil)
		return
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(fmt.Sprintf("/games/%d/mods/%d/dependencies", gameID, modID), ""),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil)
			return
		}
		ids := make([]uint64, len(r.List))
		for i, d := range r.List {
			ids[i] = uint64(d.GetInt("mod_id"))
		}
		cb(ids)
	})
}
