package completion

import (
	"encoding/json"
	"errors"
	"strings"
)

// ParseError reports completion content that could not be decoded into the
// expected shape. Raw carries the original content so callers can build
// deterministic fallbacks from it.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "completion: parse response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AsParseError extracts a ParseError from an error chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ParseJSON decodes completion content into T, tolerating code fences and
// surrounding prose. A non-nil error is always a *ParseError.
func ParseJSON[T any](content string) (T, error) {
	var out T
	cleaned := CleanJSON(content)
	if cleaned == "" {
		return out, &ParseError{Raw: content, Err: errors.New("no JSON value found")}
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, &ParseError{Raw: content, Err: err}
	}
	return out, nil
}

// CleanJSON strips markdown code fences and any prose around the outermost
// JSON object or array. Returns "" if no JSON delimiters are present.
func CleanJSON(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
