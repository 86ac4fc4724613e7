package kg

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// JSON-LD-style exchange document: a @context binding the vocabulary plus a
// @graph array of node objects. This is both the persistence format and the
// client-facing export. The @id, @type, name and requires fields are the
// stable contract; the remaining fields follow the same shape.

type contextRef struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

type exchangeDoc struct {
	Context map[string]json.RawMessage `json:"@context"`
	Graph   []nodeObject               `json:"@graph"`
}

type nodeObject struct {
	ID          string   `json:"@id"`
	Type        string   `json:"@type,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Topic       string   `json:"topic,omitempty"`
	Goal        string   `json:"goal,omitempty"`
	Requires    []string `json:"requires,omitempty"`
	Includes    []string `json:"includes,omitempty"`
	Knows       []string `json:"knows,omitempty"`
	Learning    []string `json:"learning,omitempty"`
	FollowsPath []string `json:"followsPath,omitempty"`
}

func buildContext() map[string]json.RawMessage {
	ctx := make(map[string]json.RawMessage)
	ctx["kg"] = mustRaw(Namespace)
	for _, p := range literalPredicates {
		ctx[p] = mustRaw(Prefix + p)
	}
	for _, p := range refPredicates {
		ctx[p] = mustRaw(contextRef{ID: Prefix + p, Type: "@id"})
	}
	return ctx
}

func mustRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(b)
}

// Marshal serializes the graph to the exchange document. Output is
// deterministic: nodes and reference lists are sorted.
func Marshal(g *Graph) ([]byte, error) {
	nodes := make(map[string]*nodeObject)
	subjects := make([]string, 0)

	node := func(subject string) *nodeObject {
		n, ok := nodes[subject]
		if !ok {
			n = &nodeObject{ID: Prefix + subject}
			nodes[subject] = n
			subjects = append(subjects, subject)
		}
		return n
	}

	for _, t := range g.Triples() {
		n := node(t.Subject)
		switch t.Predicate {
		case PredType:
			n.Type = t.Object
		case PredName:
			n.Name = t.Object
		case PredDescription:
			n.Description = t.Object
		case PredTopic:
			n.Topic = t.Object
		case PredGoal:
			n.Goal = t.Object
		case PredRequires:
			n.Requires = append(n.Requires, Prefix+t.Object)
		case PredIncludes:
			n.Includes = append(n.Includes, Prefix+t.Object)
		case PredKnows:
			n.Knows = append(n.Knows, Prefix+t.Object)
		case PredLearning:
			n.Learning = append(n.Learning, Prefix+t.Object)
		case PredFollowsPath:
			n.FollowsPath = append(n.FollowsPath, Prefix+t.Object)
		default:
			return nil, fmt.Errorf("unknown predicate %q on node %q", t.Predicate, t.Subject)
		}
	}

	sort.Strings(subjects)
	doc := exchangeDoc{Context: buildContext(), Graph: make([]nodeObject, 0, len(subjects))}
	for _, s := range subjects {
		n := nodes[s]
		for _, refs := range [][]string{n.Requires, n.Includes, n.Knows, n.Learning, n.FollowsPath} {
			sort.Strings(refs)
		}
		doc.Graph = append(doc.Graph, *n)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses an exchange document back into a graph. Triple content
// round-trips losslessly; ordering does not survive, a graph is a set.
func Unmarshal(data []byte) (*Graph, error) {
	var doc exchangeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse exchange document: %w", err)
	}
	if doc.Graph == nil {
		return nil, fmt.Errorf("exchange document has no @graph")
	}

	g := NewGraph()
	for _, n := range doc.Graph {
		subject := CompactID(n.ID)
		if subject == "" {
			return nil, fmt.Errorf("node object missing @id")
		}
		if n.Type != "" {
			g.AddLiteral(subject, PredType, n.Type)
		}
		if n.Name != "" {
			g.AddLiteral(subject, PredName, n.Name)
		}
		if n.Description != "" {
			g.AddLiteral(subject, PredDescription, n.Description)
		}
		if n.Topic != "" {
			g.AddLiteral(subject, PredTopic, n.Topic)
		}
		if n.Goal != "" {
			g.AddLiteral(subject, PredGoal, n.Goal)
		}
		for _, ref := range n.Requires {
			g.AddRef(subject, PredRequires, CompactID(ref))
		}
		for _, ref := range n.Includes {
			g.AddRef(subject, PredIncludes, CompactID(ref))
		}
		for _, ref := range n.Knows {
			g.AddRef(subject, PredKnows, CompactID(ref))
		}
		for _, ref := range n.Learning {
			g.AddRef(subject, PredLearning, CompactID(ref))
		}
		for _, ref := range n.FollowsPath {
			g.AddRef(subject, PredFollowsPath, CompactID(ref))
		}
	}
	return g, nil
}

// CompactID strips the namespace or prefix from an exchange-format id,
// returning the bare node key.
func CompactID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, Namespace) {
		return strings.TrimPrefix(id, Namespace)
	}
	return strings.TrimPrefix(id, Prefix)
}
