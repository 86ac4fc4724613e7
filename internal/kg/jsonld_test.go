package kg

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestMarshalUnmarshal_RoundTripSetEquality(t *testing.T) {
	g := NewGraph()
	DeclareConcept(g, "matrices", "Matrices", "Rectangular arrays")
	DeclareConcept(g, "vectors", "Vectors", "")
	AddRequires(g, "matrices", "vectors")
	DeclarePath(g, "learningpath-t1", "Linear Algebra", "Understand the basics")
	AddPathConcept(g, "learningpath-t1", "matrices")
	AddPathConcept(g, "learningpath-t1", "vectors")
	DeclareUser(g, "user-alice")
	AddKnows(g, "user-alice", "vectors")
	AddFollowsPath(g, "user-alice", "learningpath-t1")

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !g.Equal(back) {
		t.Fatalf("round trip changed the triple set: %d vs %d triples", g.Len(), back.Len())
	}
}

func TestMarshal_IsDeterministic(t *testing.T) {
	g := NewGraph()
	DeclareConcept(g, "b", "B", "")
	DeclareConcept(g, "a", "A", "")
	AddRequires(g, "b", "a")

	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Marshal(g)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("marshal output differs between runs")
		}
	}
}

func TestMarshal_PrefixesIDs(t *testing.T) {
	g := NewGraph()
	DeclareConcept(g, "vectors", "Vectors", "")

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc struct {
		Context map[string]json.RawMessage `json:"@context"`
		Graph   []map[string]any           `json:"@graph"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(doc.Graph) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc.Graph))
	}
	if id := doc.Graph[0]["@id"]; id != "kg:vectors" {
		t.Fatalf("@id = %v, want kg:vectors", id)
	}
	var ns string
	if err := json.Unmarshal(doc.Context["kg"], &ns); err != nil || ns != Namespace {
		t.Fatalf("@context kg = %q, want %q", ns, Namespace)
	}
}

func TestUnmarshal_RequiresGraphKey(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"@context": {}}`)); err == nil {
		t.Fatalf("expected error for document without @graph")
	}
}

func TestUnmarshal_AcceptsFullIRIs(t *testing.T) {
	doc := `{"@context": {}, "@graph": [
		{"@id": "` + Namespace + `matrices", "@type": "Concept", "name": "Matrices",
		 "requires": ["` + Namespace + `vectors"]}
	]}`
	g, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !g.Has(Triple{Subject: "matrices", Predicate: PredRequires, Object: "vectors"}) {
		t.Fatalf("full-IRI ids should compact to bare keys")
	}
}

func TestCompactID(t *testing.T) {
	cases := map[string]string{
		"kg:vectors":           "vectors",
		Namespace + "vectors":  "vectors",
		"vectors":              "vectors",
		"  kg:vectors  ":       "vectors",
	}
	for in, want := range cases {
		if got := CompactID(in); got != want {
			t.Fatalf("CompactID(%q) = %q, want %q", in, got, want)
		}
	}
}
