package kg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestStore_LoadAbsentReturnsEmptyGraph(t *testing.T) {
	s := newTestStore(t)

	g, err := s.Load("concepts")
	if err != nil {
		t.Fatalf("load absent: %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("absent graph should be empty, got %d triples", g.Len())
	}
	if s.Exists("concepts") {
		t.Fatalf("Exists must stay false until first save")
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	g := NewGraph()
	DeclareConcept(g, "vectors", "Vectors", "")
	DeclareConcept(g, "matrices", "Matrices", "")
	AddRequires(g, "matrices", "vectors")

	if err := s.Save(ConceptsKey, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Exists(ConceptsKey) {
		t.Fatalf("Exists should be true after save")
	}
	back, err := s.Load(ConceptsKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !g.Equal(back) {
		t.Fatalf("persisted graph differs: %d vs %d triples", g.Len(), back.Len())
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	g1 := NewGraph()
	DeclareConcept(g1, "old", "Old", "")
	if err := s.Save(ConceptsKey, g1); err != nil {
		t.Fatalf("save: %v", err)
	}

	g2 := NewGraph()
	DeclareConcept(g2, "new", "New", "")
	if err := s.Save(ConceptsKey, g2); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	back, err := s.Load(ConceptsKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !g2.Equal(back) {
		t.Fatalf("save must replace, not merge")
	}
}

func TestStore_CorruptFileIsDistinguishable(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "concepts.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err = s.Load(ConceptsKey)
	if !errors.Is(err, apperr.ErrCorruptGraph) {
		t.Fatalf("expected ErrCorruptGraph, got %v", err)
	}
}

func TestStore_KeyedGraphsAreIndependent(t *testing.T) {
	s := newTestStore(t)

	alice := NewGraph()
	DeclareUser(alice, "user-alice")
	AddKnows(alice, "user-alice", "vectors")
	if err := s.Save(UserGraphKey("user-alice"), alice); err != nil {
		t.Fatalf("save alice: %v", err)
	}

	bob := NewGraph()
	DeclareUser(bob, "user-bob")
	if err := s.Save(UserGraphKey("user-bob"), bob); err != nil {
		t.Fatalf("save bob: %v", err)
	}

	back, err := s.Load(UserGraphKey("user-alice"))
	if err != nil {
		t.Fatalf("load alice: %v", err)
	}
	if !alice.Equal(back) {
		t.Fatalf("alice graph affected by bob's save")
	}
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	g := NewGraph()
	DeclareConcept(g, "vectors", "Vectors", "")
	if err := s.Save(ConceptsKey, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "concepts.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files after save: %v", names)
	}
}
