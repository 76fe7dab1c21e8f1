// Package normalize turns raw model output into schema-valid results.
// Models return freeform text that is usually JSON, sometimes JSON wrapped
// in prose, and occasionally garbage. Every entry point here is total: any
// input produces a fully populated result.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RatingCategories are the editorial rating keys, always all present in a
// normalized result.
var RatingCategories = []string{"clarity", "accuracy", "engagement", "novelty", "risk"}

// objectStrategy attempts to recover a JSON object from model output.
type objectStrategy func(content string) (map[string]any, bool)

// objectStrategies is the ordered recovery ladder. The final rung always
// succeeds with an empty object so coercion can apply defaults.
var objectStrategies = []objectStrategy{
	parseWhole,
	parseBraceSlice,
	func(string) (map[string]any, bool) { return map[string]any{}, true },
}

func parseWhole(content string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func parseBraceSlice(content string) (map[string]any, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// recoverObject walks the ladder and returns the first recovered object.
func recoverObject(content string) map[string]any {
	for _, strat := range objectStrategies {
		if obj, ok := strat(content); ok {
			return obj
		}
	}
	return map[string]any{} // unreachable, the last rung cannot fail
}

// toList wraps a scalar in a single-element list and maps nil to empty.
func toList(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}

// toStrings coerces a value into a list of strings.
func toStrings(v any) []string {
	items := toList(v)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, asString(it))
	}
	return out
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// stringField reads a string field, mapping absent and non-string to "".
func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// clampRating coerces a value to an integer rating in [0,10]. Numbers and
// numeric strings round and clamp; everything else is nil.
func clampRating(v any) *int {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	f = math.Max(0, math.Min(10, f))
	n := int(math.Round(f))
	return &n
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// scaleRatings normalizes the editorial ratings map to [0,10]. When every
// numeric value is at or below 5 the model is assumed to have used a /5
// scale and all values are doubled first. A response scored uniformly low
// on a /10 scale is indistinguishable from a /5 response and gets doubled
// too; the rubric in the prompt is what keeps that rare.
func scaleRatings(raw map[string]any) map[string]*int {
	maxNumeric := math.Inf(-1)
	sawNumeric := false
	for _, key := range RatingCategories {
		if f, ok := raw[key].(float64); ok {
			sawNumeric = true
			if f > maxNumeric {
				maxNumeric = f
			}
		}
	}

	out := make(map[string]*int, len(RatingCategories))
	for _, key := range RatingCategories {
		v := raw[key]
		if sawNumeric && maxNumeric <= 5.0 {
			if f, ok := v.(float64); ok {
				out[key] = clampRating(f * 2)
			} else {
				out[key] = nil
			}
			continue
		}
		out[key] = clampRating(v)
	}
	return out
}

// toCitations filters a value to a list of non-negative integer snippet
// indices. Fractional numbers, negatives, and non-numeric strings drop.
func toCitations(v any) []int {
	items := toList(v)
	out := make([]int, 0, len(items))
	for _, it := range items {
		if n, ok := asCitation(it); ok {
			out = append(out, n)
		}
	}
	return out
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func asCitation(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(x)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
