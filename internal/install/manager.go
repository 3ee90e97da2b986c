// Package install implements the installation manager: the state machine
// that composes a modfile metadata fetch, a streamed archive download,
// optional extraction, and on-disk layout management (spec.md §4.8).
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/klauspost/compress/zip"
)

// Key identifies an install/uninstall target.
type Key struct {
	GameID uint64
	ModID  uint64
}

// ModfileInfo is the subset of a Modfile the installation manager needs to
// drive a download, independent of the façade's richer Modfile record.
type ModfileInfo struct {
	ID       uint64
	URL      string
	FileSize uint64
}

// Fetcher resolves modfile metadata. done is called exactly once; raw is
// the modfile's original JSON document, persisted verbatim as the sidecar
// file, and ok is false on any non-success status.
type Fetcher interface {
	FetchModfile(ctx context.Context, gameID, modID, modfileID uint64, done func(raw []byte, info ModfileInfo, ok bool))
}

// Downloader streams a URL's body into dest without seeking or closing it.
// done receives the terminal HTTP status code; 200 means success.
type Downloader interface {
	Download(ctx context.Context, url string, dest io.Writer, done func(statusCode int))
}

// Manager tracks in-flight installs and performs on-disk install/uninstall.
type Manager struct {
	root     string
	unzip    bool
	fetcher  Fetcher
	download Downloader

	mu       sync.Mutex
	inflight map[Key]struct{}
}

func New(root string, unzip bool, fetcher Fetcher, downloader Downloader) *Manager {
	return &Manager{
		root:     root,
		unzip:    unzip,
		fetcher:  fetcher,
		download: downloader,
		inflight: make(map[Key]struct{}),
	}
}

func (m *Manager) modDir(gameID uint64) string {
	return filepath.Join(m.root, "mods", strconv.FormatUint(gameID, 10))
}

func (m *Manager) jsonPath(gameID, modID uint64) string {
	return filepath.Join(m.modDir(gameID), strconv.FormatUint(modID, 10)+".json")
}

func (m *Manager) zipPath(gameID, modID uint64) string {
	return filepath.Join(m.modDir(gameID), strconv.FormatUint(modID, 10)+".zip")
}

func (m *Manager) extractedDir(gameID, modID uint64) string {
	return filepath.Join(m.modDir(gameID), strconv.FormatUint(modID, 10))
}

// Install runs Requested -> MetadataFetching -> Downloading ->
// (Extracting?) -> Finalized|Failed, calling done exactly once with
// (success, gameID, modID) on the terminal transition.
func (m *Manager) Install(ctx context.Context, gameID, modID, modfileID uint64, done func(success bool, gameID, modID uint64)) {
	key := Key{GameID: gameID, ModID: modID}

	m.mu.Lock()
	m.inflight[key] = struct{}{}
	m.mu.Unlock()

	finish := func(success bool) {
		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
		done(success, gameID, modID)
	}

	m.fetcher.FetchModfile(ctx, gameID, modID, modfileID, func(raw []byte, info ModfileInfo, ok bool) {
		if !ok {
			finish(false)
			return
		}

		if err := os.MkdirAll(m.modDir(gameID), 0o755); err != nil {
			finish(false)
			return
		}
		if err := os.WriteFile(m.jsonPath(gameID, modID), raw, 0o644); err != nil {
			finish(false)
			return
		}

		zipPath := m.zipPath(gameID, modID)
		f, err := os.Create(zipPath)
		if err != nil {
			finish(false)
			return
		}

		m.download.Download(ctx, info.URL, f, func(statusCode int) {
			_ = f.Close()

			if statusCode != 200 {
				finish(false)
				return
			}

			if m.unzip {
				if err := m.extract(gameID, modID); err != nil {
					finish(false)
					return
				}
			}

			finish(true)
		})
	})
}

// extract opens the downloaded zip, writes every non-directory entry under
// the mod's extracted directory, then deletes the zip.
func (m *Manager) extract(gameID, modID uint64) error {
	zipPath := m.zipPath(gameID, modID)
	destDir := m.extractedDir(gameID, modID)

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer func() { _ = r.Close() }()

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(entry.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", entry.Name, err)
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("opening entry %s: %w", entry.Name, err)
		}

		out, err := os.Create(target)
		if err != nil {
			_ = rc.Close()
			return fmt.Errorf("creating %s: %w", target, err)
		}

		_, copyErr := io.Copy(out, rc)
		closeErr := out.Close()
		_ = rc.Close()
		if copyErr != nil {
			return fmt.Errorf("writing %s: %w", target, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("flushing %s: %w", target, closeErr)
		}
	}

	return os.Remove(zipPath)
}

// IsInstalled reports whether the modfile sidecar JSON exists on disk.
func (m *Manager) IsInstalled(gameID, modID uint64) bool {
	_, err := os.Stat(m.jsonPath(gameID, modID))
	return err == nil
}

// IsDownloading reports whether (gameID, modID) is currently registered as
// in-flight.
func (m *Manager) IsDownloading(gameID, modID uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inflight[Key{GameID: gameID, ModID: modID}]
	return ok
}

// Uninstall removes the sidecar JSON, the zip (if present), and the
// extracted directory (if present), in that order. It does not wait for
// in-flight downloads. Returns false if the mod was not installed.
func (m *Manager) Uninstall(gameID, modID uint64) (bool, error) {
	if !m.IsInstalled(gameID, modID) {
		return false, nil
	}

	if err := os.Remove(m.jsonPath(gameID, modID)); err != nil {
		return false, fmt.Errorf("removing sidecar: %w", err)
	}

	if err := os.Remove(m.zipPath(gameID, modID)); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("removing archive: %w", err)
	}

	if err := os.RemoveAll(m.extractedDir(gameID, modID)); err != nil {
		return false, fmt.Errorf("removing extracted tree: %w", err)
	}

	return true, nil
}

var sidecarName = regexp.MustCompile(`^(\d+)\.json$`)

// InstalledMod is one entry reported by EnumerateInstalled: the mod's
// identity and the most concrete path representing it on disk.
type InstalledMod struct {
	GameID uint64
	ModID  uint64
	Path   string
}

// EnumerateInstalled walks the on-disk layout and invokes fn once per
// installed mod, ordered by (gameID, modID). When gameID is non-nil, only
// that game's directory is scanned. The reported path prefers the
// extracted directory, then the zip, then the sidecar JSON.
func (m *Manager) EnumerateInstalled(gameID *uint64, fn func(InstalledMod)) error {
	var gameDirs []uint64

	if gameID != nil {
		gameDirs = []uint64{*gameID}
	} else {
		modsRoot := filepath.Join(m.root, "mods")
		entries, err := os.ReadDir(modsRoot)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("reading mods directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			id, err := strconv.ParseUint(e.Name(), 10, 64)
			if err != nil {
				continue
			}
			gameDirs = append(gameDirs, id)
		}
		sort.Slice(gameDirs, func(i, j int) bool { return gameDirs[i] < gameDirs[j] })
	}

	for _, gid := range gameDirs {
		dir := m.modDir(gid)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading game directory %s: %w", dir, err)
		}

		var modIDs []uint64
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			match := sidecarName.FindStringSubmatch(e.Name())
			if match == nil {
				continue
			}
			id, err := strconv.ParseUint(match[1], 10, 64)
			if err != nil {
				continue
			}
			modIDs = append(modIDs, id)
		}
		sort.Slice(modIDs, func(i, j int) bool { return modIDs[i] < modIDs[j] })

		for _, mid := range modIDs {
			path := m.jsonPath(gid, mid)
			if _, err := os.Stat(m.extractedDir(gid, mid)); err == nil {
				path = m.extractedDir(gid, mid)
			} else if _, err := os.Stat(m.zipPath(gid, mid)); err == nil {
				path = m.zipPath(gid, mid)
			}
			fn(InstalledMod{GameID: gid, ModID: mid, Path: path})
		}
	}

	return nil
}

// GetInstalledMod loads the persisted sidecar JSON for (gameID, modID), if
// present, returning its raw bytes. Per spec.md §9's open question on the
// original's stub contract, this does no network activity.
func (m *Manager) GetInstalledMod(gameID, modID uint64) ([]byte, bool) {
	data, err := os.ReadFile(m.jsonPath(gameID, modID))
	if err != nil {
		return nil, false
	}
	return data, true
}
