package kg

// Fixed vocabulary for the learning-path graphs. The schema is a compile-time
// table: node types, edge predicates, and literal predicates are enumerated
// here and nowhere else.

// Namespace is the prefix expansion bound to "kg" in the exchange format.
const Namespace = "https://learnpath.dev/kg#"

// Prefix is the compact namespace prefix used for node ids in the exchange
// format ("kg:vectors").
const Prefix = "kg:"

// Node types.
const (
	TypeConcept      = "Concept"
	TypeLearningPath = "LearningPath"
	TypeUser         = "User"
)

// Predicates. PredType, PredName, PredDescription, PredTopic and PredGoal
// carry literals; the rest are node references.
const (
	PredType        = "type"
	PredName        = "name"
	PredDescription = "description"
	PredTopic       = "topic"
	PredGoal        = "goal"

	PredRequires    = "requires"
	PredIncludes    = "includes"
	PredKnows       = "knows"
	PredLearning    = "learning"
	PredFollowsPath = "followsPath"
)

// edgePredicates are the reference predicates subgraph traversal follows.
var edgePredicates = map[string]bool{
	PredRequires:    true,
	PredIncludes:    true,
	PredKnows:       true,
	PredLearning:    true,
	PredFollowsPath: true,
}

// refPredicates lists the reference predicates the exchange-format @context
// declares as @id-typed terms.
var refPredicates = []string{PredRequires, PredIncludes, PredKnows, PredLearning, PredFollowsPath}

// literalPredicates lists the literal predicates bound in the @context.
var literalPredicates = []string{PredName, PredDescription, PredTopic, PredGoal}
