package nlu

import (
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSONObject pulls the first JSON object out of freeform model output.
// Handles markdown code fences and leading/trailing prose. Returns an error
// when no balanced object is present; callers treat that as a soft failure.
func ExtractJSONObject(content string) (string, error) {
	content = strings.TrimSpace(content)

	// Unwrap a fenced code block if present.
	if matches := fencedBlockRegex.FindStringSubmatch(content); len(matches) > 1 {
		content = strings.TrimSpace(matches[1])
	}

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Braces inside strings don't count.
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}
