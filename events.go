package minimod

import (
	"context"
	"fmt"

	"minimod/internal/dispatch"
	"minimod/internal/netw"
)

// EventsCallback receives the result of GetEvents.
type EventsCallback func(events []Event, pagination Pagination)

// GetEvents retrieves events for gameID, optionally narrowed to a single
// modID (0 for game-wide) and to events added after sinceUnix (0 to omit
// the date_added-gt filter parameter).
func (c *Client) GetEvents(ctx context.Context, gameID, modID uint64, filter string, sinceUnix int64, cb EventsCallback) {
	if gameID == 0 {
		c.setLastError(errPrecondition("GetEvents requires a nonzero gameID"))
		cb(nil, Pagination{})
		return
	}

	path := fmt.Sprintf("/games/%d/mods", gameID)
	if modID != 0 {
		path = fmt.Sprintf("%s/%d", path, modID)
	}
	path += "/events"

	if sinceUnix > 0 {
		dateFilter := fmt.Sprintf("date_added-gt=%d", sinceUnix)
		if filter == "" {
			filter = dateFilter
		} else {
			filter = filter + "&" + dateFilter
		}
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(path, filter),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		if !r.Success {
			cb(nil, Pagination{})
			return
		}
		events := make([]Event, len(r.List))
		for i, d := range r.List {
			events[i] = populateEvent(d)
		}
		cb(events, Pagination(r.Pagination))
	})
}
