package minimod

import (
	"context"
	"fmt"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// ModfilesCallback receives the result of GetModfiles.
type ModfilesCallback func(modfiles []Modfile)

// GetModfiles retrieves modfiles for (gameID, modID). A zero modfileID
// selects the list endpoint; a non-zero value selects the singleton
// endpoint. Either way the dispatcher normalizes the result into a slice
// of length >= 0 (spec.md §8 boundary behavior).
func (c *Client) GetModfiles(ctx context.Context, filter string, gameID, modID, modfileID uint64, cb ModfilesCallback) {
	if gameID == 0 || modID == 0 {
		c.setLastError(errPrecondition("GetModfiles requires a nonzero gameID and modID"))
		cb(nil)
		return
	}

	path := fmt.Sprintf("/games/%d/mods/%d/files", gameID, modID)
	if modfileID != 0 {
		path = fmt.Sprintf("%s/%d", path, modfileID)
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(path, filter),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil)
			return
		}

		// Singleton endpoint: normalize the one document into a
		// one-element slice.
		if r.Doc != nil {
			cb([]Modfile{populateModfile(r.Doc)})
			return
		}

		modfiles := make([]Modfile, len(r.List))
		for i, d := range r.List {
			modfiles[i] = populateModfile(d)
		}
		cb(modfiles)
	})
}
