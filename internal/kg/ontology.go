package kg

// Typed helpers over the fixed vocabulary. Concepts are immutable once
// declared: re-declaring an existing key leaves its label and description
// untouched.

// DeclareConcept adds a concept node with its label (and optional
// description). Returns false if the key was already declared.
func DeclareConcept(g *Graph, key, label, description string) bool {
	if IsConcept(g, key) {
		return false
	}
	g.AddLiteral(key, PredType, TypeConcept)
	if label != "" {
		g.AddLiteral(key, PredName, label)
	}
	if description != "" {
		g.AddLiteral(key, PredDescription, description)
	}
	return true
}

func IsConcept(g *Graph, key string) bool {
	return g.Has(Triple{Subject: key, Predicate: PredType, Object: TypeConcept, Literal: true})
}

// AddRequires records that concept requires prerequisite. An undeclared
// prerequisite is materialized as a stub concept whose label is the raw
// referenced name; the return value reports whether that happened so callers
// can surface a diagnostic.
func AddRequires(g *Graph, concept, prerequisite string) (stubCreated bool) {
	stubCreated = DeclareConcept(g, prerequisite, prerequisite, "")
	g.AddRef(concept, PredRequires, prerequisite)
	return stubCreated
}

// DeclarePath adds a learning-path node with its topic and optional goal.
func DeclarePath(g *Graph, key, topic, goal string) {
	g.AddLiteral(key, PredType, TypeLearningPath)
	if topic != "" {
		g.AddLiteral(key, PredTopic, topic)
		g.AddLiteral(key, PredName, topic)
	}
	if goal != "" {
		g.AddLiteral(key, PredGoal, goal)
	}
}

// AddPathConcept links a learning path to one of its concepts.
func AddPathConcept(g *Graph, pathKey, conceptKey string) {
	g.AddRef(pathKey, PredIncludes, conceptKey)
}

// PathConcepts returns the concept keys a path includes.
func PathConcepts(g *Graph, pathKey string) []string {
	return g.ObjectsOf(pathKey, PredIncludes)
}

// DeclareUser adds a user node. Returns false if already present.
func DeclareUser(g *Graph, key string) bool {
	t := Triple{Subject: key, Predicate: PredType, Object: TypeUser, Literal: true}
	if g.Has(t) {
		return false
	}
	g.Add(t)
	return true
}

func AddKnows(g *Graph, userKey, conceptKey string) {
	g.AddRef(userKey, PredKnows, conceptKey)
}

func AddLearning(g *Graph, userKey, conceptKey string) {
	g.AddRef(userKey, PredLearning, conceptKey)
}

func AddFollowsPath(g *Graph, userKey, pathKey string) {
	g.AddRef(userKey, PredFollowsPath, pathKey)
}

func KnownConcepts(g *Graph, userKey string) []string {
	return g.ObjectsOf(userKey, PredKnows)
}

func LearningConcepts(g *Graph, userKey string) []string {
	return g.ObjectsOf(userKey, PredLearning)
}

func Knows(g *Graph, userKey, conceptKey string) bool {
	return g.Has(Triple{Subject: userKey, Predicate: PredKnows, Object: conceptKey})
}
