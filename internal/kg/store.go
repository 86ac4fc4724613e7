package kg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/logger"
)

// Well-known storage keys. User and path graphs are keyed per entity.
const (
	ConceptsKey = "concepts"

	userKeyPrefix = "user:"
	pathKeyPrefix = "path:"
)

func UserGraphKey(userKey string) string { return userKeyPrefix + userKey }
func PathGraphKey(pathKey string) string { return pathKeyPrefix + pathKey }

// Store persists one graph per storage key as an exchange-format file. A key
// is a single-writer-assumed resource: Load → mutate → Save is last-write-wins
// against a concurrent writer of the same key.
type Store struct {
	dir string
	log *logger.Logger
}

func NewStore(dir string, baseLog *logger.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("kg store: data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", apperr.ErrStorage, err)
	}
	return &Store{dir: dir, log: baseLog.With("service", "KGStore")}, nil
}

// Load returns the persisted graph for key, or an empty graph if none exists.
// Absence is never an error; a file that exists but fails to parse is
// ErrCorruptGraph.
func (s *Store) Load(key string) (*Graph, error) {
	path := s.filePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("Graph file not found, returning empty graph", "key", key)
			return NewGraph(), nil
		}
		return nil, fmt.Errorf("%w: read graph %q: %v", apperr.ErrStorage, key, err)
	}
	g, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: graph %q: %v", apperr.ErrCorruptGraph, key, err)
	}
	s.log.Debug("Loaded graph", "key", key, "triples", g.Len())
	return g, nil
}

// Save overwrites the graph at key, writing to a temp file in the same
// directory and renaming over the target so a crash cannot truncate it.
func (s *Store) Save(key string, g *Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return fmt.Errorf("serialize graph %q: %w", key, err)
	}
	path := s.filePath(key)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for graph %q: %v", apperr.ErrStorage, key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write graph %q: %v", apperr.ErrStorage, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close graph %q: %v", apperr.ErrStorage, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename graph %q: %v", apperr.ErrStorage, key, err)
	}
	s.log.Debug("Saved graph", "key", key, "triples", g.Len())
	return nil
}

// Exists reports whether a graph has ever been saved under key.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.filePath(key))
	return err == nil
}

// filePath maps a storage key to a file under the data directory. Characters
// outside [a-z0-9._-] are replaced so keys cannot escape the directory.
func (s *Store) filePath(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ':':
			b.WriteByte('_')
		default:
			b.WriteByte('-')
		}
	}
	return filepath.Join(s.dir, b.String()+".json")
}
