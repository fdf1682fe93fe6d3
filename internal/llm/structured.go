package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// openingFence matches a leading ``` marker with an optional language tag.
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")

// StripCodeFences removes one layer of Markdown fence wrapping, whether the
// fences sit on their own lines or hug the payload ("```json {...}```").
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractObject decodes the first JSON object found in raw model output into a
// generic map. It strips code fences and tolerates prose before or after the
// object. Errors wrap ErrInvalidOutput.
func ExtractObject(raw string) (map[string]any, error) {
	cleaned := StripCodeFences(raw)
	block := extractJSONBlock(cleaned)
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(block)))
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: JSON value is null", ErrInvalidOutput)
	}
	return obj, nil
}

// extractJSONBlock finds the first balanced { ... } block in the text,
// skipping braces inside string literals.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
