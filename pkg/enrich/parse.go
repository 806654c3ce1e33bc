package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
)

// knownFields is the set of field names the API may return.
var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(conferences.TrackedFields))
	for _, f := range conferences.TrackedFields {
		m[f] = true
	}
	return m
}()

// ParseResponse parses the model's reply into a field map. A bare `false`
// means the search found nothing (nil, nil). Markdown code fences around
// the JSON are stripped. Null and empty values are dropped; keys outside
// the tracked field set are rejected. A response with no usable fields is
// treated as nothing found.
func ParseResponse(text string) (map[string]string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, "false") {
		return nil, nil
	}

	trimmed = stripFences(trimmed)
	if trimmed == "" {
		return nil, &errors.ParseError{Format: "json", Message: "empty response"}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, errors.WrapParse("json", "enrichment response", err)
	}

	fields := make(map[string]string, len(raw))
	for key, val := range raw {
		if !knownFields[key] {
			return nil, &errors.ParseError{
				Format:  "json",
				Message: fmt.Sprintf("unexpected field %q in response", key),
			}
		}

		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			// Numbers are fine for attendee counts; everything else is noise.
			var n json.Number
			if err := json.Unmarshal(val, &n); err != nil {
				continue
			}
			s = n.String()
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		fields[key] = strings.TrimSpace(s)
	}

	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// stripFences removes a surrounding Markdown code fence, with or without
// a json language tag, and isolates the outermost JSON object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	// Models sometimes wrap the object in prose; keep just the object.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
