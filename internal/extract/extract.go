// Package extract turns raw model output into structured concept records.
// Model output is unreliable prose: the locator is maximally tolerant of
// formatting noise, the final decode is strict.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnpath/core-service/internal/apperr"
)

// ConceptRecord is one concept with its prerequisite references, as found in
// the payload. ID and Requires entries keep whatever namespace prefix the
// model used; Name is the display label.
type ConceptRecord struct {
	ID       string   `json:"@id"`
	Name     string   `json:"name"`
	Requires []string `json:"requires"`
}

// LearningPath locates the structured payload in raw text and decodes it.
// It accepts a JSON-LD document ({"@graph":[...]}), a bare array of concept
// records, or a single record object; anything else is ErrExtraction.
func LearningPath(raw string) ([]ConceptRecord, error) {
	payload := locatePayload(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: no structured payload in model output", apperr.ErrExtraction)
	}
	records, err := decodeRecords(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrExtraction, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: payload contains no concepts", apperr.ErrExtraction)
	}
	return records, nil
}

// locatePayload prefers the interior of the first fenced code block, then the
// first balanced brace- or bracket-delimited region.
func locatePayload(raw string) string {
	if inner := fencedBlock(raw); inner != "" {
		// The fence interior may itself carry prose around the JSON.
		if region := balancedRegion(inner); region != "" {
			return region
		}
		return inner
	}
	return balancedRegion(raw)
}

func fencedBlock(s string) string {
	start := strings.Index(s, "```")
	if start < 0 {
		return ""
	}
	rest := s[start+3:]
	// Drop an info string like "json" up to the first newline.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		return ""
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

// balancedRegion returns the first balanced {...} or [...] region, tracking
// JSON string literals so braces inside strings do not count.
func balancedRegion(s string) string {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func decodeRecords(payload string) ([]ConceptRecord, error) {
	trimmed := strings.TrimSpace(payload)

	if strings.HasPrefix(trimmed, "[") {
		var records []ConceptRecord
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("decode concept array: %w", err)
		}
		return validate(records)
	}

	var doc struct {
		Graph []ConceptRecord `json:"@graph"`
	}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("decode payload object: %w", err)
	}
	if doc.Graph != nil {
		return validate(doc.Graph)
	}

	// Last resort: a single record object.
	var one ConceptRecord
	if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
		return nil, fmt.Errorf("decode concept record: %w", err)
	}
	return validate([]ConceptRecord{one})
}

// validate enforces the schema once, here at the boundary: every record needs
// a name, falling back to the local part of its @id. Downstream components
// never re-check shape.
func validate(records []ConceptRecord) ([]ConceptRecord, error) {
	out := make([]ConceptRecord, 0, len(records))
	for i, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			r.Name = localPart(r.ID)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("record %d has neither name nor @id", i)
		}
		reqs := make([]string, 0, len(r.Requires))
		for _, ref := range r.Requires {
			if ref = strings.TrimSpace(ref); ref != "" {
				reqs = append(reqs, ref)
			}
		}
		r.Requires = reqs
		out = append(out, r)
	}
	return out, nil
}

func localPart(id string) string {
	if i := strings.LastIndexAny(id, ":#/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
