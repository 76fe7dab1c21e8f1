package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NeilARaman/Echo/internal/domain"
)

// textKeys are probed in order when looking for the payload of a record.
var textKeys = []string{"text", "data", "content", "body"}

// ExtractSources normalizes the JSON container shapes produced by scrapers
// and exports into (label, text) pairs. Supported shapes:
//
//	{"sources": [{"url": ..., "text": ...}, ...]}
//	{"documents": [...]} or {"docs": [...]}
//	{"text"|"data"|"content"|"body": "..."}
//	["...", {"url": ..., "text": ...}, ...]
//
// Labels are "file::url" when the record carries a url, otherwise
// "file::<kind>_<ordinal>". Unusable entries are skipped, never fatal.
func ExtractSources(raw []byte, filename string) ([]domain.SourceDoc, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse container: %w", err)
	}

	switch obj := v.(type) {
	case map[string]any:
		return extractFromObject(obj, filename), nil
	case []any:
		return extractFromArray(obj, filename, "item"), nil
	default:
		return nil, nil
	}
}

func extractFromObject(obj map[string]any, filename string) []domain.SourceDoc {
	var out []domain.SourceDoc

	if arr, ok := obj["sources"].([]any); ok {
		for i, it := range arr {
			rec, ok := it.(map[string]any)
			if !ok {
				continue
			}
			text := pickText(rec)
			if text == "" {
				continue
			}
			out = append(out, domain.SourceDoc{Label: recordLabel(rec, filename, "source", i), Text: text})
		}
	}

	for _, key := range []string{"documents", "docs"} {
		arr, ok := obj[key].([]any)
		if !ok {
			continue
		}
		kind := strings.TrimSuffix(key, "s")
		for i, it := range arr {
			switch rec := it.(type) {
			case map[string]any:
				text := pickText(rec)
				if text == "" {
					continue
				}
				out = append(out, domain.SourceDoc{Label: recordLabel(rec, filename, kind, i), Text: text})
			case string:
				if strings.TrimSpace(rec) == "" {
					continue
				}
				out = append(out, domain.SourceDoc{Label: fmt.Sprintf("%s::%s_%d", filename, kind, i+1), Text: rec})
			}
		}
	}

	if text := pickText(obj); text != "" {
		out = append(out, domain.SourceDoc{Label: filename + "::single", Text: text})
	}
	return out
}

func extractFromArray(arr []any, filename, kind string) []domain.SourceDoc {
	var out []domain.SourceDoc
	for i, it := range arr {
		switch rec := it.(type) {
		case map[string]any:
			text := pickText(rec)
			if text == "" {
				continue
			}
			out = append(out, domain.SourceDoc{Label: recordLabel(rec, filename, kind, i), Text: text})
		case string:
			if strings.TrimSpace(rec) == "" {
				continue
			}
			out = append(out, domain.SourceDoc{Label: fmt.Sprintf("%s::%s_%d", filename, kind, i+1), Text: rec})
		}
	}
	return out
}

func pickText(rec map[string]any) string {
	for _, key := range textKeys {
		if s, ok := rec[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func recordLabel(rec map[string]any, filename, kind string, i int) string {
	if url, ok := rec["url"].(string); ok {
		if url = strings.TrimSpace(url); url != "" {
			return filename + "::" + url
		}
	}
	return fmt.Sprintf("%s::%s_%d", filename, kind, i+1)
}
