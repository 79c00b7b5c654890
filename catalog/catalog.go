// Package catalog indexes language definition directories and resolves language ids and MIME types to files.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"

	"github.com/ava12/langload/langdef"
)

// Ext is the extension of language definition files.
const Ext = ".lang"

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
	DefaultDebounce        = 500 * time.Millisecond
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Catalog keeps metadata of languages found in a list of directories.
// A language id found in several directories is taken from the first one.
// Catalog is safe for concurrent use.
type Catalog struct {
	fs       afero.Fs
	dirs     []string
	log      *slog.Logger
	cache    *gocache.Cache
	debounce time.Duration

	mu   sync.RWMutex
	byID map[string]langdef.Metadata
}

// New creates an empty catalog of dirs, call Scan to fill it.
func New(fs afero.Fs, dirs ...string) *Catalog {
	return &Catalog{
		fs:       fs,
		dirs:     dirs,
		log:      slog.Default(),
		cache:    gocache.New(DefaultExpiration, DefaultCleanupInterval),
		debounce: DefaultDebounce,
		byID:     make(map[string]langdef.Metadata),
	}
}

func (c *Catalog) SetLogger(logger *slog.Logger) {
	c.log = logger
}

// SetDebounce sets delay between the last file change and rescan in Watch.
func (c *Catalog) SetDebounce(d time.Duration) {
	c.debounce = d
}

func (c *Catalog) Dirs() []string {
	return slices.Clone(c.dirs)
}

// Scan rebuilds the index. Missing directories are skipped, other directory read errors are returned
// joined after the index is rebuilt from the readable directories.
func (c *Catalog) Scan() error {
	byID := make(map[string]langdef.Metadata)
	var errs []error
	for _, dir := range c.dirs {
		entries, e := afero.ReadDir(c.fs, dir)
		if e != nil {
			if errors.Is(e, os.ErrNotExist) {
				c.log.Debug("language directory not found", "dir", dir)
			} else {
				errs = append(errs, fmt.Errorf("reading %s: %w", dir, e))
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
				continue
			}

			m := c.metadata(filepath.Join(dir, entry.Name()))
			if m.ID == "" {
				continue
			}
			if prev, has := byID[m.ID]; has {
				c.log.Debug("language shadowed", "id", m.ID, "path", m.Path, "by", prev.Path)
				continue
			}

			byID[m.ID] = m
		}
	}

	c.mu.Lock()
	c.byID = byID
	c.mu.Unlock()
	c.log.Info("language catalog scanned", "dirs", len(c.dirs), "languages", len(byID))
	return errors.Join(errs...)
}

func (c *Catalog) metadata(path string) langdef.Metadata {
	if cached, found := c.cache.Get(path); found {
		if m, ok := cached.(langdef.Metadata); ok {
			return m
		}
	}

	m, e := langdef.ReadMetadata(c.fs, path)
	if e != nil {
		c.log.Warn("malformed language definition", "path", path, "error", e)
	}
	c.cache.Set(path, m, gocache.DefaultExpiration)
	return m
}

// Invalidate drops cached metadata of definition file.
func (c *Catalog) Invalidate(path string) {
	c.cache.Delete(path)
}

// PathForID returns definition file of language id or empty string.
func (c *Catalog) PathForID(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id].Path
}

// PathForMimeType returns definition file of the language handling mimeType.
// If no language lists mimeType, base name of filename is matched against language globs.
// Languages are checked in id order. Returns empty string if nothing matches.
func (c *Catalog) PathForMimeType(mimeType, filename string) string {
	langs := c.Languages()
	if mimeType != "" {
		for _, m := range langs {
			if slices.Contains(m.MimeTypes, mimeType) {
				return m.Path
			}
		}
	}

	if filename == "" {
		return ""
	}
	base := filepath.Base(filename)
	for _, m := range langs {
		for _, glob := range m.Globs {
			if matched, _ := filepath.Match(glob, base); matched {
				return m.Path
			}
		}
	}
	return ""
}

// Languages returns metadata of all indexed languages sorted by id.
func (c *Catalog) Languages() []langdef.Metadata {
	c.mu.RLock()
	result := make([]langdef.Metadata, 0, len(c.byID))
	for _, m := range c.byID {
		result = append(result, m)
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Metadata returns metadata of language id.
func (c *Catalog) Metadata(id string) (langdef.Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, has := c.byID[id]
	return m, has
}

// Watch watches catalog directories on the OS file system. Changed definition files are dropped from
// the metadata cache and the catalog is rescanned once changes settle down.
// The returned channel receives a signal after each rescan and is closed when ctx is done.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, e := fsnotify.NewWatcher()
	if e != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", e)
	}

	watched := 0
	for _, dir := range c.dirs {
		if e := w.Add(dir); e != nil {
			c.log.Warn("cannot watch language directory", "dir", dir, "error", e)
			continue
		}
		watched++
	}
	if watched == 0 && len(c.dirs) > 0 {
		w.Close()
		return nil, fmt.Errorf("watching %s: no directory can be watched", strings.Join(c.dirs, ", "))
	}

	changed := make(chan struct{}, 1)
	go c.watch(ctx, w, changed)
	return changed, nil
}

func (c *Catalog) watch(ctx context.Context, w *fsnotify.Watcher, changed chan<- struct{}) {
	defer close(changed)
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != Ext || event.Op&relevantOps == 0 {
				continue
			}

			c.Invalidate(event.Name)
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if e := c.Scan(); e != nil {
				c.log.Warn("language catalog rescan failed", "error", e)
			}
			select {
			case changed <- struct{}{}:
			default:
			}

		case e, ok := <-w.Errors:
			if !ok {
				return
			}
			c.log.Warn("language directory watch error", "error", e)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
