// Package file provides the file-backed source store. Source metadata lives
// in a TOML manifest and each source's raw records in one JSON file, so the
// whole data directory can be inspected and edited by hand.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

const (
	manifestFile = "sources.toml"
	recordsDir   = "sources"

	// Shared sources load last so user imports win key collisions.
	customLinksPosition = 9998
	catalogPosition     = 9999
)

// SourceStore persists sources under a data directory:
//
//	<dataDir>/sources.toml       source metadata manifest
//	<dataDir>/sources/<id>.json  raw records, one JSON array per source
type SourceStore struct {
	mu      sync.RWMutex
	dataDir string
}

// manifest is the on-disk shape of sources.toml.
type manifest struct {
	Sources map[string]manifestEntry `toml:"sources"`
}

type manifestEntry struct {
	Name      string    `toml:"name"`
	OwnerID   string    `toml:"owner_id,omitempty"`
	Position  int       `toml:"position"`
	CreatedAt time.Time `toml:"created_at"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// NewSourceStore creates a file-backed source store rooted at dataDir.
// If dataDir is empty, defaults to ~/.showroom/data. The two shared sources
// are created on first run so they always exist.
func NewSourceStore(dataDir string) (*SourceStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, ".showroom", "data")
	}

	if err := os.MkdirAll(filepath.Join(dataDir, recordsDir), 0700); err != nil {
		return nil, err
	}

	s := &SourceStore{dataDir: dataDir}
	if err := s.bootstrap(); err != nil {
		return nil, err
	}
	return s, nil
}

// bootstrap seeds the shared sources missing from the manifest.
func (s *SourceStore) bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest()
	if err != nil {
		return err
	}

	shared := []struct {
		id       string
		name     string
		position int
	}{
		{domain.SharedSourceCustomLinks, "Custom Links", customLinksPosition},
		{domain.SharedSourceCatalog, "Catalog", catalogPosition},
	}

	now := time.Now()
	changed := false
	for _, sh := range shared {
		if _, ok := m.Sources[sh.id]; ok {
			continue
		}
		m.Sources[sh.id] = manifestEntry{
			Name:      sh.name,
			Position:  sh.position,
			CreatedAt: now,
			UpdatedAt: now,
		}
		changed = true

		path := s.recordsPath(sh.id)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := atomicWrite(path, []byte("[]\n")); err != nil {
				return fmt.Errorf("seed %s: %w", sh.id, err)
			}
		}
	}

	if !changed {
		return nil
	}
	return s.saveManifest(m)
}

// Save stores or updates source metadata.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest()
	if err != nil {
		return err
	}
	m.Sources[source.ID] = manifestEntry{
		Name:      source.Name,
		OwnerID:   source.OwnerID,
		Position:  source.Position,
		CreatedAt: source.CreatedAt,
		UpdatedAt: source.UpdatedAt,
	}
	return s.saveManifest(m)
}

// Get retrieves source metadata by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest()
	if err != nil {
		return nil, err
	}
	entry, ok := m.Sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	source := entry.toSource(id)
	return &source, nil
}

// List returns all sources ordered by load position.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest()
	if err != nil {
		return nil, err
	}
	result := make([]domain.Source, 0, len(m.Sources))
	for id, entry := range m.Sources {
		result = append(result, entry.toSource(id))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes the source metadata and its record file.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest()
	if err != nil {
		return err
	}
	if _, ok := m.Sources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Sources, id)
	if err := s.saveManifest(m); err != nil {
		return err
	}

	if err := os.Remove(s.recordsPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove records for %s: %w", id, err)
	}
	return nil
}

// Rename moves the record file and metadata to a new id and name.
// When newID equals the old id only the label changes.
func (s *SourceStore) Rename(_ context.Context, id, newID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest()
	if err != nil {
		return err
	}
	entry, ok := m.Sources[id]
	if !ok {
		return domain.ErrNotFound
	}

	entry.Name = newName
	entry.UpdatedAt = time.Now()

	if newID != id {
		oldPath, newPath := s.recordsPath(id), s.recordsPath(newID)
		if _, err := os.Stat(oldPath); err == nil {
			if err := os.Rename(oldPath, newPath); err != nil {
				return fmt.Errorf("move records %s -> %s: %w", id, newID, err)
			}
		}
		delete(m.Sources, id)
	}

	m.Sources[newID] = entry
	return s.saveManifest(m)
}

// LoadRecords reads the raw records of a source.
func (s *SourceStore) LoadRecords(_ context.Context, id string) ([]domain.RawProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.recordsPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var records []domain.RawProduct
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records for %s: %w", id, err)
	}
	return records, nil
}

// SaveRecords rewrites the raw records of a source atomically.
func (s *SourceStore) SaveRecords(_ context.Context, id string, records []domain.RawProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []domain.RawProduct{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records for %s: %w", id, err)
	}
	return atomicWrite(s.recordsPath(id), append(data, '\n'))
}

// DataDir returns the root data directory.
func (s *SourceStore) DataDir() string {
	return s.dataDir
}

// RecordsDir returns the directory holding the per-source record files.
func (s *SourceStore) RecordsDir() string {
	return filepath.Join(s.dataDir, recordsDir)
}

func (s *SourceStore) recordsPath(id string) string {
	return filepath.Join(s.dataDir, recordsDir, id+".json")
}

func (s *SourceStore) manifestPath() string {
	return filepath.Join(s.dataDir, manifestFile)
}

// loadManifest reads sources.toml. A missing file yields an empty manifest.
func (s *SourceStore) loadManifest() (*manifest, error) {
	m := &manifest{Sources: make(map[string]manifestEntry)}

	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
	}
	if m.Sources == nil {
		m.Sources = make(map[string]manifestEntry)
	}
	return m, nil
}

func (s *SourceStore) saveManifest(m *manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", manifestFile, err)
	}
	return atomicWrite(s.manifestPath(), data)
}

// atomicWrite writes data to a temp file in the target directory and renames
// it into place, so readers never observe a partially written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (e manifestEntry) toSource(id string) domain.Source {
	return domain.Source{
		ID:        id,
		Name:      e.Name,
		OwnerID:   e.OwnerID,
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
