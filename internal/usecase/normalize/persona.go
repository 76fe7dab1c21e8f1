package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// PersonaDraft is a raw persona proposal recovered from generator output,
// before naming rules and prompt synthesis are applied.
type PersonaDraft struct {
	Name             string
	WhyIncluded      string
	Scope            []string
	AvoidOverlapWith []string
	SystemPrompt     string
}

var personasArrayRe = regexp.MustCompile(`"personas"\s*:\s*(\[[\s\S]*\])`)

// arrayStrategy attempts to recover a persona array from generator output.
type arrayStrategy func(content string) ([]any, bool)

var personaStrategies = []arrayStrategy{
	personasWhole,
	personasBraceSlice,
	personasRegex,
	personasBracketSlice,
}

// ExtractPersonas recovers a list of persona proposals from model output,
// trying progressively looser parses. An unrecoverable payload yields an
// empty slice.
func ExtractPersonas(content string) []PersonaDraft {
	for _, strat := range personaStrategies {
		if arr, ok := strat(content); ok {
			return coercePersonas(arr)
		}
	}
	return nil
}

func personasWhole(content string) ([]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, false
	}
	return personaArrayOf(v)
}

func personasBraceSlice(content string) ([]any, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return nil, false
	}
	return personaArrayOf(v)
}

func personasRegex(content string) ([]any, bool) {
	m := personasArrayRe.FindStringSubmatch(content)
	if m == nil {
		return nil, false
	}
	var arr []any
	if err := json.Unmarshal([]byte(m[1]), &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func personasBracketSlice(content string) ([]any, bool) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	var arr []any
	if err := json.Unmarshal([]byte(content[start:end+1]), &arr); err != nil {
		return nil, false
	}
	return arr, true
}

// personaArrayOf accepts either an object with a "personas" array or a bare
// array.
func personaArrayOf(v any) ([]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		if arr, ok := x["personas"].([]any); ok {
			return arr, true
		}
		return nil, false
	case []any:
		return x, true
	default:
		return nil, false
	}
}

func coercePersonas(arr []any) []PersonaDraft {
	out := make([]PersonaDraft, 0, len(arr))
	for _, it := range arr {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, PersonaDraft{
			Name:             strings.TrimSpace(stringField(m, "name")),
			WhyIncluded:      stringField(m, "why_included"),
			Scope:            toStrings(m["scope"]),
			AvoidOverlapWith: toStrings(m["avoid_overlap_with"]),
			SystemPrompt:     strings.TrimSpace(stringField(m, "system_prompt")),
		})
	}
	return out
}
