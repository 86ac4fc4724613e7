package kg

// Triple is the atomic (subject, predicate, object) statement of a graph.
// Literal marks the object as a text value rather than a node reference.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Literal   bool
}

// Graph is a mutable set of triples. The zero value is not usable; construct
// with NewGraph. Adding an existing triple is a no-op.
type Graph struct {
	triples map[Triple]struct{}
}

func NewGraph() *Graph {
	return &Graph{triples: make(map[Triple]struct{})}
}

func (g *Graph) Len() int { return len(g.triples) }

func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

func (g *Graph) Add(t Triple) {
	g.triples[t] = struct{}{}
}

// AddRef adds a node-reference triple.
func (g *Graph) AddRef(subject, predicate, object string) {
	g.Add(Triple{Subject: subject, Predicate: predicate, Object: object})
}

// AddLiteral adds a literal-valued triple.
func (g *Graph) AddLiteral(subject, predicate, value string) {
	g.Add(Triple{Subject: subject, Predicate: predicate, Object: value, Literal: true})
}

// Merge adds every triple of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for t := range other.triples {
		g.triples[t] = struct{}{}
	}
}

// Triples returns the triple set in unspecified order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	return out
}

// TriplesOf returns every triple whose subject is the given node.
func (g *Graph) TriplesOf(subject string) []Triple {
	var out []Triple
	for t := range g.triples {
		if t.Subject == subject {
			out = append(out, t)
		}
	}
	return out
}

// ObjectsOf returns the objects of all (subject, predicate, _) triples.
func (g *Graph) ObjectsOf(subject, predicate string) []string {
	var out []string
	for t := range g.triples {
		if t.Subject == subject && t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

// SubjectsOf returns the subjects of all (_, predicate, object) triples.
func (g *Graph) SubjectsOf(predicate, object string) []string {
	var out []string
	for t := range g.triples {
		if t.Predicate == predicate && t.Object == object {
			out = append(out, t.Subject)
		}
	}
	return out
}

// LiteralOf returns the first literal value of (subject, predicate, _), if any.
func (g *Graph) LiteralOf(subject, predicate string) (string, bool) {
	for t := range g.triples {
		if t.Subject == subject && t.Predicate == predicate && t.Literal {
			return t.Object, true
		}
	}
	return "", false
}

// Equal reports set equality of the two graphs' triples.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || len(g.triples) != len(other.triples) {
		return false
	}
	for t := range g.triples {
		if _, ok := other.triples[t]; !ok {
			return false
		}
	}
	return true
}
