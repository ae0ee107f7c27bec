package infer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/models"
)

// ParseResponse extracts the JSON object from a free-form model response and
// maps it to cleaned metadata. Models wrap their output in prose and fenced
// code blocks, so only the span from the first '{' to the last '}' is
// parsed. Null and empty-string fields are dropped so they cannot overwrite
// a populated field during reconciliation.
func ParseResponse(response string) (models.InferredMetadata, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return models.InferredMetadata{}, &apperr.SchemaError{Err: fmt.Errorf("no JSON object found in response")}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(response[start:end+1]), &fields); err != nil {
		return models.InferredMetadata{}, &apperr.SchemaError{Err: err}
	}

	meta := models.InferredMetadata{
		Title:           stringField(fields, "title"),
		Authors:         listField(fields, "authors"),
		Year:            stringField(fields, "year"),
		Publisher:       stringField(fields, "publisher"),
		Type:            stringField(fields, "type"),
		Category:        stringField(fields, "category"),
		Topic:           stringField(fields, "topic"),
		SubTopic:        stringField(fields, "subTopic"),
		Keywords:        listField(fields, "keywords"),
		Labels:          listField(fields, "labels"),
		Abstract:        stringField(fields, "abstract"),
		Summary:         stringField(fields, "summary"),
		Methodology:     stringField(fields, "methodology"),
		Strengths:       listField(fields, "strengths"),
		Weaknesses:      listField(fields, "weaknesses"),
		UnfamiliarTerms: listField(fields, "unfamiliarTerms"),
		Tips:            stringField(fields, "tips"),
	}
	return meta, nil
}

// stringField returns the trimmed string value of a field, tolerating
// numeric values (a model may return "year": 2021).
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%v", v), ".0"), ".00")
	default:
		return ""
	}
}

// listField returns the non-empty string entries of an array field.
func listField(fields map[string]any, key string) []string {
	arr, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
