package workflow

import (
	"fmt"
	"strings"
)

// jsonldStructure describes the required output shape to the model. The
// extractor and the graph exchange codec both depend on this contract.
const jsonldStructure = `
The output must be a valid JSON-LD knowledge graph with the following structure:
- "@context": Defines the schema with "name", "requires" (prerequisite relationships), and namespace prefix
- "@graph": Array of concept objects, where each object has:
  - "@id": Unique identifier using the namespace prefix (e.g., "kg:concept-name")
  - "@type": Always "Concept"
  - "name": Human-readable name of the concept
  - "requires": (optional) Array of "@id" references to prerequisite concepts

The graph should represent a learning path with concepts ordered by dependencies, where foundational concepts have no prerequisites and advanced concepts build upon them.
`

func assessmentSystemPrompt(topic string) string {
	return fmt.Sprintf(
		"You are a personalized AI tutor. The learner wants to learn about %s. "+
			"Ask 3-5 clarifying questions to understand their current knowledge level, background, and specific learning goals. "+
			"Be concise and focused.",
		topic,
	)
}

func generationSystemPrompt(topic string) string {
	return fmt.Sprintf(
		"You are an expert learning path designer. Based on the learner's profile, create a comprehensive learning path for %s. ",
		topic,
	) + jsonldStructure +
		"\n\nIMPORTANT: Output ONLY the JSON-LD knowledge graph, no additional text or explanation. " +
		"Ensure the JSON is valid and properly formatted."
}

// renderTranscript flattens the transcript into the user turn of a model
// call, since the client takes a single system + user pair.
func renderTranscript(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch m.Role {
		case RoleHuman:
			b.WriteString("Learner: ")
		case RoleAI:
			b.WriteString("Tutor: ")
		default:
			b.WriteString("Note: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
