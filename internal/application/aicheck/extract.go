package aicheck

import "strings"

// ExtractJSON returns the first JSON object embedded in a model answer.
// Models often wrap the object in prose or a ```json fence; the scan starts
// at the first '{' and follows nesting, ignoring braces inside strings.
// When the object is never closed it falls back to the span up to the last
// '}', and returns "" when there is no object at all.
func ExtractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}
	if end := findJSONEnd(content, start); end > start {
		return content[start:end]
	}
	if last := strings.LastIndexByte(content, '}'); last > start {
		return content[start : last+1]
	}
	return ""
}

// findJSONEnd returns the index just past the brace closing the object that
// opens at start, or -1.
func findJSONEnd(content string, start int) int {
	depth := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if inString {
			switch char {
			case '\\':
				escapeNext = true
			case '"':
				inString = false
			}
			continue
		}

		switch char {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return -1
}
