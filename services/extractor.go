package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	anyFenceRe  = regexp.MustCompile("(?s)```(?:[\\w-]+[ \\t]*\\r?\\n)?(.*?)```")
)

// ExtractJSON recovers a JSON value from raw model output. The model is told
// to answer with bare JSON but often wraps it in prose or a Markdown fence.
// It tries, in order: the whole text, the first fenced block, and the span
// from the first '{' to the last '}'. When nothing parses it returns an
// empty object; it never fails.
func ExtractJSON(text string) any {
	for _, raw := range jsonCandidates(text) {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return map[string]any{}
}

// ExtractInto runs the same fallback chain as ExtractJSON and decodes the
// first candidate that unmarshals into out. It reports whether any did;
// on false the contents of out are unspecified.
func ExtractInto(text string, out any) bool {
	for _, raw := range jsonCandidates(text) {
		if !json.Valid([]byte(raw)) {
			continue
		}
		if err := json.Unmarshal([]byte(raw), out); err == nil {
			return true
		}
	}
	return false
}

func jsonCandidates(text string) []string {
	out := []string{text}

	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	} else if m := anyFenceRe.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		out = append(out, text[start:end+1])
	}
	return out
}
