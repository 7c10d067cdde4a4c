package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend wraps some responses in {"data": ...} and returns others
// bare. Normalization happens once, here, so call sites always see the
// canonical shape.

func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []T{}, nil
	}

	if body[0] == '{' {
		var envelope struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		if envelope.Data == nil {
			return []T{}, nil
		}
		return envelope.Data, nil
	}

	var bare []T
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if bare == nil {
		bare = []T{}
	}
	return bare, nil
}

func decodeRecord[T any](body []byte) (T, error) {
	var zero T
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return zero, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		if trimmed := bytes.TrimSpace(envelope.Data); len(trimmed) > 0 && trimmed[0] == '{' {
			var record T
			if err := json.Unmarshal(trimmed, &record); err != nil {
				return zero, fmt.Errorf("decode record: %w", err)
			}
			return record, nil
		}
	}

	var record T
	if err := json.Unmarshal(body, &record); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
