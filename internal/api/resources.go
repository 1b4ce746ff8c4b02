package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// decodeList accepts either a bare JSON array or an envelope of the form
// {"data": [...]}.
func decodeList[T any](result *Result) ([]T, error) {
	if !result.IsJSON() {
		return nil, fmt.Errorf("%w: expected a JSON list, got %q", ErrUnexpectedContent, result.ContentType)
	}

	trimmed := bytes.TrimSpace(result.JSON)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}

func segment(id string) string {
	return url.PathEscape(id)
}

func projectPath(projectID string, rest ...string) string {
	p := "/projects/" + segment(projectID)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
