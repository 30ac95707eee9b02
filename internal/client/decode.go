package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList reads a collection answered either as a bare array or as an
// envelope {"data": [...]}, paginated or not. A missing or null list
// decodes as empty.
func DecodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	items := make([]T, 0)
	if len(raw) == 0 {
		return items, nil
	}

	if raw[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		raw = bytes.TrimSpace(env.Data)
		if len(raw) == 0 || raw[0] != '[' {
			return items, nil
		}
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

// DecodeItem reads one object, unwrapping {"data": ...} when present.
func DecodeItem(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode item: %w", err)
		}
		if data, ok := env["data"]; ok {
			raw = data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	return nil
}
