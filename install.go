package minimod

import (
	"context"
	"fmt"
	"io"

	"minimod/internal/dispatch"
	"minimod/internal/document"
	"minimod/internal/install"
	"minimod/internal/netw"
)

// parseDoc decodes raw into a *document.Doc, used by GetInstalledMod to
// re-hydrate the persisted sidecar JSON.
func parseDoc(raw []byte) (*document.Doc, error) {
	return document.Parse(raw)
}

// FetchModfile satisfies install.Fetcher: resolves modfile metadata for
// the installation manager, without exposing the façade's richer Modfile
// type to the internal package.
func (c *Client) FetchModfile(ctx context.Context, gameID, modID, modfileID uint64, done func(raw []byte, info install.ModfileInfo, ok bool)) {
	path := fmt.Sprintf("/games/%d/mods/%d/files", gameID, modID)
	if modfileID != 0 {
		path = fmt.Sprintf("%s/%d", path, modfileID)
	}

	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           c.apiKeyURL(path, ""),
		Headers:       unauthenticatedHeaders(),
		SuccessStatus: 200,
	}

	c.disp.Do(ctx, req, func(r dispatch.Result) {
		doc := r.Doc
		if doc == nil && len(r.List) > 0 {
			doc = r.List[0]
		}
		if !r.Success || doc == nil {
			done(nil, install.ModfileInfo{}, false)
			return
		}

		raw, err := doc.Bytes()
		if err != nil {
			done(nil, install.ModfileInfo{}, false)
			return
		}

		mf := populateModfile(doc)
		done(raw, install.ModfileInfo{ID: mf.ID, URL: mf.URL, FileSize: mf.FileSize}, true)
	})
}

// Download satisfies install.Downloader: streams a pre-signed modfile URL
// directly into dest via the Transport, bypassing the dispatcher's JSON
// decoding path (the response body is a binary archive, not a document).
func (c *Client) Download(ctx context.Context, url string, dest io.Writer, done func(statusCode int)) {
	req := dispatch.Request{
		Verb:          netw.GET,
		URI:           url,
		Dest:          dest,
		SuccessStatus: 200,
	}
	c.disp.Do(ctx, req, func(r dispatch.Result) {
		done(r.StatusCode)
	})
}

// InstallCallback receives the terminal outcome of Install.
type InstallCallback func(success bool, gameID, modID uint64)

// Install composes a modfile lookup, a streamed download, and (if enabled
// at construction) archive extraction, per spec.md §4.8. modfileID of 0
// installs the first entry of the mod's modfile list; the mod's own
// current-modfile field is not consulted.
func (c *Client) Install(ctx context.Context, gameID, modID, modfileID uint64, cb InstallCallback) bool {
	if gameID == 0 || modID == 0 {
		c.setLastError(errPrecondition("Install requires a nonzero gameID and modID"))
		cb(false, gameID, modID)
		return false
	}
	c.mgr.Install(ctx, gameID, modID, modfileID, cb)
	return true
}

// Uninstall removes an installed mod's sidecar, archive, and extracted
// tree. Returns false if the mod was not installed; does not wait for
// in-flight downloads of the same mod.
func (c *Client) Uninstall(gameID, modID uint64) (bool, error) {
	return c.mgr.Uninstall(gameID, modID)
}

// IsInstalled reports whether (gameID, modID) has a persisted sidecar.
func (c *Client) IsInstalled(gameID, modID uint64) bool {
	return c.mgr.IsInstalled(gameID, modID)
}

// IsDownloading reports whether (gameID, modID) is currently installing.
func (c *Client) IsDownloading(gameID, modID uint64) bool {
	return c.mgr.IsDownloading(gameID, modID)
}

// InstalledModEntry is one result from EnumerateInstalled.
type InstalledModEntry struct {
	GameID uint64
	ModID  uint64
	Path   string
}

// EnumerateInstalled walks the on-disk layout, invoking fn once per
// installed mod. gameID of nil scans every game.
func (c *Client) EnumerateInstalled(gameID *uint64, fn func(InstalledModEntry)) error {
	return c.mgr.EnumerateInstalled(gameID, func(im install.InstalledMod) {
		fn(InstalledModEntry{GameID: im.GameID, ModID: im.ModID, Path: im.Path})
	})
}

// GetInstalledMod loads the persisted sidecar JSON for (gameID, modID) and
// delivers it as a one-element Mod list, per spec.md §9's open question on
// the reference implementation's stub contract. It performs no network
// activity.
func (c *Client) GetInstalledMod(gameID, modID uint64, cb ModsCallback) {
	raw, ok := c.mgr.GetInstalledMod(gameID, modID)
	if !ok {
		cb(nil, Pagination{})
		return
	}

	doc, err := parseDoc(raw)
	if err != nil {
		cb(nil, Pagination{})
		return
	}
	cb([]Mod{populateMod(doc)}, Pagination{})
}
