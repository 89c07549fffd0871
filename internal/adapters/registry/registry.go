// Package registry loads the client site table from a YAML file and keeps
// it fresh by watching the file for edits.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/rfarias/geocapture/internal/core/domain"
)

type siteFile struct {
	Sites []domain.ClientSite `yaml:"sites"`
}

// FileRegistry implements ports.SiteRegistry. Reads take a snapshot under a
// read lock; reloads swap the slice wholesale, so a malformed edit never
// replaces a good table.
type FileRegistry struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	sites []domain.ClientSite

	watcher *fsnotify.Watcher
}

// Load reads and validates the site table at path.
func Load(path string, logger *slog.Logger) (*FileRegistry, error) {
	r := &FileRegistry{path: path, logger: logger}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRegistry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read site table: %w", err)
	}

	var parsed siteFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse site table %s: %w", r.path, err)
	}

	for i, site := range parsed.Sites {
		if strings.TrimSpace(site.Name) == "" {
			return fmt.Errorf("site table %s: entry %d has no name", r.path, i)
		}
		if !site.Center.Valid() {
			return fmt.Errorf("site table %s: %q center out of range", r.path, site.Name)
		}
		if site.RadiusMeters <= 0 {
			return fmt.Errorf("site table %s: %q radius must be positive", r.path, site.Name)
		}
	}

	r.mu.Lock()
	r.sites = parsed.Sites
	r.mu.Unlock()
	return nil
}

// Watch reloads the table whenever the file changes. Editors often replace
// the file via rename, so the watch is on the parent directory. A reload
// failure is logged and the previous table stays in effect.
func (r *FileRegistry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create site table watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch site table: %w", err)
	}
	r.watcher = watcher

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(r.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := r.reload(); err != nil {
					r.logger.Error("site table reload failed, keeping previous table", "error", err)
					continue
				}
				r.logger.Info("site table reloaded", "path", r.path, "sites", len(r.Sites()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Error("site table watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Sites returns a snapshot of the current site table.
func (r *FileRegistry) Sites() []domain.ClientSite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ClientSite, len(r.sites))
	copy(out, r.sites)
	return out
}

// FindByName looks up a site by its full client name, case-insensitively.
func (r *FileRegistry) FindByName(name string) (*domain.ClientSite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.sites {
		if strings.EqualFold(r.sites[i].Name, name) {
			site := r.sites[i]
			return &site, true
		}
	}
	return nil, false
}

// Close stops the file watcher, if one was started.
func (r *FileRegistry) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}
