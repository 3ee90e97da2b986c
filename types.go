// Package minimod is a client-side library that brokers access to a
// remote mod-distribution service: it enumerates games and mods,
// authenticates end users, downloads and installs mods, tracks
// subscriptions and ratings, and observes server-side events, behind a
// uniform asynchronous callback contract.
package minimod

import "minimod/internal/document"

// ModStatus is a Mod's moderation/lifecycle status.
type ModStatus int

const (
	StatusNotAccepted ModStatus = iota
	StatusAccepted
	StatusArchived
	StatusDeleted
)

// EventType classifies a server-side Event.
type EventType int

const (
	EventUnknown EventType = iota
	EventSubscribe
	EventUnsubscribe
	EventTeamJoin
	EventTeamLeave
	EventModAvailable
	EventModUnavailable
	EventModEdited
	EventModDeleted
	EventModfileChanged
)

// eventTypeFromString maps the API's string event type to EventType. The
// reference implementation's populate_event mapped both "MOD_DELETED" and
// "USER_TEAM_LEAVE" to the same tag; per spec.md §9's open question this is
// treated as a bug and corrected here, symmetric with the other paired
// team/mod mappings.
func eventTypeFromString(s string) EventType {
	switch s {
	case "USER_SUBSCRIBE":
		return EventSubscribe
	case "USER_UNSUBSCRIBE":
		return EventUnsubscribe
	case "USER_TEAM_JOIN":
		return EventTeamJoin
	case "USER_TEAM_LEAVE":
		return EventTeamLeave
	case "MOD_AVAILABLE":
		return EventModAvailable
	case "MOD_UNAVAILABLE":
		return EventModUnavailable
	case "MOD_EDITED":
		return EventModEdited
	case "MOD_DELETED":
		return EventModDeleted
	case "MODFILE_CHANGED":
		return EventModfileChanged
	default:
		return EventUnknown
	}
}

// Game is a title hosted on the mod.io-shaped service.
type Game struct {
	ID   uint64
	Name string
	raw  *document.Doc
}

// Raw exposes the game's late-bound fields. Valid only for the duration
// of the continuation that received this Game.
func (g Game) Raw() *document.Doc { return g.raw }

func populateGame(d *document.Doc) Game {
	return Game{
		ID:   uint64(d.GetInt("id")),
		Name: d.GetString("name"),
		raw:  d,
	}
}

// Stats are aggregate counters on a Mod.
type Stats struct {
	Downloads    int64
	Subscribers  int64
	RatingsTotal int64
}

// Mod is a single moddable unit published under a Game.
type Mod struct {
	ID          uint64
	GameID      uint64
	ModfileID   uint64 // 0 when the mod has no published file
	DateUpdated int64
	Name        string
	Summary     string
	Status      ModStatus
	Submitter   User
	Stats       Stats
	raw         *document.Doc
}

func (m Mod) Raw() *document.Doc { return m.raw }

func populateMod(d *document.Doc) Mod {
	m := Mod{
		ID:          uint64(d.GetInt("id")),
		GameID:      uint64(d.GetInt("game_id")),
		DateUpdated: d.GetInt("date_updated"),
		Name:        d.GetString("name"),
		Summary:     d.GetString("summary"),
		Status:      ModStatus(d.GetInt("status")),
		raw:         d,
	}

	if modfile := d.Object("modfile"); modfile != nil {
		m.ModfileID = uint64(modfile.GetInt("id"))
	}

	if submitter := d.Object("submitted_by"); submitter != nil {
		m.Submitter = populateUser(submitter)
	}

	if stats := d.Object("stats"); stats != nil {
		m.Stats = Stats{
			Downloads:    stats.GetInt("downloads_total"),
			Subscribers:  stats.GetInt("subscribers_total"),
			RatingsTotal: stats.GetInt("ratings_total"),
		}
	}

	return m
}

// Modfile is a concrete downloadable artifact attached to a Mod.
type Modfile struct {
	ID        uint64
	ModID     uint64
	DateAdded int64
	MD5       string
	URL       string
	FileSize  uint64
	raw       *document.Doc
}

func (m Modfile) Raw() *document.Doc { return m.raw }

func populateModfile(d *document.Doc) Modfile {
	mf := Modfile{
		ID:        uint64(d.GetInt("id")),
		ModID:     uint64(d.GetInt("mod_id")),
		DateAdded: d.GetInt("date_added"),
		FileSize:  uint64(d.GetInt("filesize")),
		raw:       d,
	}
	if download := d.Object("download"); download != nil {
		mf.URL = download.GetString("binary_url")
		mf.MD5 = download.GetString("md5")
	}
	return mf
}

// User is a mod.io account.
type User struct {
	ID       uint64
	Username string
	raw      *document.Doc
}

func (u User) Raw() *document.Doc { return u.raw }

func populateUser(d *document.Doc) User {
	return User{
		ID:       uint64(d.GetInt("id")),
		Username: d.GetString("username"),
		raw:      d,
	}
}

// Rating is a user's vote on a Mod: +1, -1, or 0 (neutral/unset).
type Rating struct {
	GameID uint64
	ModID  uint64
	Date   int64
	Value  int
	raw    *document.Doc
}

func (r Rating) Raw() *document.Doc { return r.raw }

func populateRating(d *document.Doc) Rating {
	return Rating{
		GameID: uint64(d.GetInt("game_id")),
		ModID:  uint64(d.GetInt("mod_id")),
		Date:   d.GetInt("date_added"),
		Value:  int(d.GetInt("rating")),
		raw:    d,
	}
}

// Event is a server-side occurrence affecting a Mod.
type Event struct {
	ID        uint64
	GameID    uint64
	ModID     uint64
	UserID    uint64
	DateAdded int64
	Type      EventType
	raw       *document.Doc
}

func (e Event) Raw() *document.Doc { return e.raw }

func populateEvent(d *document.Doc) Event {
	return Event{
		ID:        uint64(d.GetInt("id")),
		GameID:    uint64(d.GetInt("game_id")),
		ModID:     uint64(d.GetInt("mod_id")),
		UserID:    uint64(d.GetInt("user_id")),
		DateAdded: d.GetInt("date_added"),
		Type:      eventTypeFromString(d.GetString("event_type")),
		raw:       d,
	}
}

// Pagination describes a list endpoint's offset/limit/total window.
type Pagination struct {
	Offset int64
	Limit  int64
	Total  int64
}
