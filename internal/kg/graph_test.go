package kg

import (
	"testing"
)

func TestAdd_IsIdempotent(t *testing.T) {
	g := NewGraph()
	g.AddRef("matrices", PredRequires, "vectors")
	g.AddRef("matrices", PredRequires, "vectors")
	g.AddLiteral("matrices", PredName, "Matrices")
	g.AddLiteral("matrices", PredName, "Matrices")

	if g.Len() != 2 {
		t.Fatalf("expected 2 triples after duplicate adds, got %d", g.Len())
	}
}

func TestLiteralAndRef_AreDistinctTriples(t *testing.T) {
	g := NewGraph()
	g.AddRef("a", PredRequires, "b")
	g.AddLiteral("a", PredRequires, "b")

	if g.Len() != 2 {
		t.Fatalf("literal and reference with same terms should be distinct, got %d triples", g.Len())
	}
}

func TestDeclareConcept_IsImmutable(t *testing.T) {
	g := NewGraph()
	if !DeclareConcept(g, "vectors", "Vectors", "Directed quantities") {
		t.Fatalf("first declaration should report true")
	}
	if DeclareConcept(g, "vectors", "Renamed", "Changed") {
		t.Fatalf("re-declaration should report false")
	}
	name, ok := g.LiteralOf("vectors", PredName)
	if !ok || name != "Vectors" {
		t.Fatalf("label must survive re-declaration, got %q", name)
	}
	desc, _ := g.LiteralOf("vectors", PredDescription)
	if desc != "Directed quantities" {
		t.Fatalf("description must survive re-declaration, got %q", desc)
	}
}

func TestAddRequires_MaterializesStub(t *testing.T) {
	g := NewGraph()
	DeclareConcept(g, "matrices", "Matrices", "")

	stub := AddRequires(g, "matrices", "vectors")
	if !stub {
		t.Fatalf("expected stub creation for undeclared prerequisite")
	}
	if !IsConcept(g, "vectors") {
		t.Fatalf("prerequisite should be declared after AddRequires")
	}
	if !g.Has(Triple{Subject: "matrices", Predicate: PredRequires, Object: "vectors"}) {
		t.Fatalf("requires edge missing")
	}

	if AddRequires(g, "matrices", "vectors") {
		t.Fatalf("second AddRequires must not report a stub")
	}
}

func TestUserEdges(t *testing.T) {
	g := NewGraph()
	DeclareUser(g, "user-alice")
	AddKnows(g, "user-alice", "vectors")
	AddLearning(g, "user-alice", "matrices")
	AddFollowsPath(g, "user-alice", "learningpath-t1")

	if !Knows(g, "user-alice", "vectors") {
		t.Fatalf("expected user to know vectors")
	}
	if Knows(g, "user-alice", "matrices") {
		t.Fatalf("learning is not knowing")
	}
	known := KnownConcepts(g, "user-alice")
	if len(known) != 1 || known[0] != "vectors" {
		t.Fatalf("known concepts = %v", known)
	}
	learning := LearningConcepts(g, "user-alice")
	if len(learning) != 1 || learning[0] != "matrices" {
		t.Fatalf("learning concepts = %v", learning)
	}
}

func buildChain(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	DeclareConcept(g, "calculus", "Calculus", "")
	DeclareConcept(g, "algebra", "Algebra", "")
	DeclareConcept(g, "arithmetic", "Arithmetic", "")
	AddRequires(g, "calculus", "algebra")
	AddRequires(g, "algebra", "arithmetic")
	return g
}

func TestExtractSubgraph_DepthZeroIsDirectTriples(t *testing.T) {
	g := buildChain(t)
	sub := ExtractSubgraph(g, "calculus", 0)

	for _, tr := range g.TriplesOf("calculus") {
		if !sub.Has(tr) {
			t.Fatalf("depth 0 missing direct triple %+v", tr)
		}
	}
	if sub.Has(Triple{Subject: "algebra", Predicate: PredRequires, Object: "arithmetic"}) {
		t.Fatalf("depth 0 must not include neighbor edges")
	}
}

func TestExtractSubgraph_DepthMonotone(t *testing.T) {
	g := buildChain(t)

	prev := ExtractSubgraph(g, "calculus", 0)
	for depth := 1; depth <= 3; depth++ {
		cur := ExtractSubgraph(g, "calculus", depth)
		for _, tr := range prev.Triples() {
			if !cur.Has(tr) {
				t.Fatalf("depth %d lost triple %+v from depth %d", depth, tr, depth-1)
			}
		}
		prev = cur
	}

	// Depth 2 reaches the whole chain.
	full := ExtractSubgraph(g, "calculus", 2)
	if !full.Equal(g) {
		t.Fatalf("depth 2 should cover the full chain: got %d of %d triples", full.Len(), g.Len())
	}
}

func TestExtractSubgraph_MissingRoot(t *testing.T) {
	g := buildChain(t)
	sub := ExtractSubgraph(g, "nonexistent", 3)
	if sub.Len() != 0 {
		t.Fatalf("missing root should yield empty graph, got %d triples", sub.Len())
	}
}

func TestExtractSubgraph_CycleTerminates(t *testing.T) {
	g := NewGraph()
	DeclareConcept(g, "a", "A", "")
	DeclareConcept(g, "b", "B", "")
	AddRequires(g, "a", "b")
	AddRequires(g, "b", "a")

	sub := ExtractSubgraph(g, "a", 10)
	if !sub.Equal(g) {
		t.Fatalf("cycle traversal should cover both nodes: got %d of %d triples", sub.Len(), g.Len())
	}
}
