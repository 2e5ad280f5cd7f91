// Package jsonrepair recovers a JSON object from free-form model output. It
// runs an ordered list of repair strategies, each a pure text transform, and
// stops at the first one whose output parses. Model rotation on total failure
// is the caller's job; this package only exhausts the in-response repairs.
package jsonrepair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Strategy is one repair step. Transform receives the output of the previous
// step, so repairs accumulate down the list.
type Strategy struct {
	Name      string
	Transform func(string) string
}

// Strategies returns the ordered repair pipeline.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "direct", Transform: func(s string) string { return s }},
		{Name: "strip_fences", Transform: StripFences},
		{Name: "brace_span", Transform: BraceSpan},
		{Name: "repair_syntax", Transform: RepairSyntax},
	}
}

// Parse tries each strategy in order and returns the first successfully
// parsed object. The returned error wraps the final parse failure.
func Parse(raw string) (map[string]any, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return nil, fmt.Errorf("empty response")
	}

	var lastErr error
	current := input
	for _, strategy := range Strategies() {
		current = strategy.Transform(current)

		var obj map[string]any
		if err := json.Unmarshal([]byte(current), &obj); err == nil {
			return obj, nil
		} else {
			lastErr = fmt.Errorf("strategy %s: %w", strategy.Name, err)
		}
	}
	return nil, fmt.Errorf("all repair strategies exhausted: %w", lastErr)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// StripFences removes Markdown code fences, keeping the fenced body. When no
// fence is found the input passes through unchanged.
func StripFences(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// Unterminated fence: drop the opening marker
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```JSON")
		trimmed = strings.TrimPrefix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return s
}

// BraceSpan isolates the first balanced-looking object span. Quotes are
// tracked so braces inside string values do not shift the balance.
func BraceSpan(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	// Unbalanced: greedy span to the last closing brace
	end := strings.LastIndex(s, "}")
	if end > start {
		return s[start : end+1]
	}
	return s
}

var (
	trailingCommaRe  = regexp.MustCompile(`,(\s*[}\]])`)
	singleQuoteKeyRe = regexp.MustCompile(`'([^'\n]*)'(\s*):`)
	singleQuoteValRe = regexp.MustCompile(`:(\s*)'([^'\n]*)'`)
)

// RepairSyntax applies the cheap syntactic fixes in sequence: trailing
// commas, single-quoted keys/values, then unescaped quotes inside values.
func RepairSyntax(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = singleQuoteKeyRe.ReplaceAllString(s, `"$1"$2:`)
	s = singleQuoteValRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := singleQuoteValRe.FindStringSubmatch(m)
		val := strings.ReplaceAll(sub[2], `"`, `\"`)
		return ":" + sub[1] + `"` + val + `"`
	})
	s = escapeInnerQuotes(s)
	return s
}

// escapeInnerQuotes walks the text and escapes double quotes that appear
// inside a string value without terminating it. A quote is treated as a
// terminator only when the next non-space byte is structural (, } ] :) or
// end of input; anything else means the model forgot to escape it.
func escapeInnerQuotes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' && inString {
			sb.WriteByte(c)
			escaped = true
			continue
		}
		if c != '"' {
			sb.WriteByte(c)
			continue
		}

		if !inString {
			inString = true
			sb.WriteByte(c)
			continue
		}

		// Closing candidate: peek at the next non-space byte
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j >= len(s) {
			inString = false
			sb.WriteByte(c)
			continue
		}
		switch s[j] {
		case ',', '}', ']', ':', '\n', '\r':
			inString = false
			sb.WriteByte(c)
		default:
			sb.WriteString(`\"`)
		}
	}
	return sb.String()
}
