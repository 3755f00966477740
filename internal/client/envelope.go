package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/hrms/internal/model"
)

// decodeList extracts a page of records from a list response. Records are
// taken from the first of "data", "items" or listKey that holds an array;
// a "data" object is searched the same way one level down. Pagination comes
// from "pagination" at either level. A body with no records yields an empty
// page, not an error.
func decodeList[T any](body []byte, listKey string) (*model.Page[T], error) {
	body = bytes.TrimSpace(body)
	page := &model.Page[T]{Items: []T{}}
	if len(body) == 0 {
		return page, nil
	}
	if body[0] == '[' {
		if err := json.Unmarshal(body, &page.Items); err != nil {
			return nil, fmt.Errorf("decoding records: %w", err)
		}
		return page, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	records, pagination := findList(env, listKey)
	if records == nil {
		if nested, ok := asObject(env["data"]); ok {
			records, pagination = findList(nested, listKey)
			if pagination == nil {
				pagination = env["pagination"]
			}
		}
	}

	if records != nil {
		if err := json.Unmarshal(records, &page.Items); err != nil {
			return nil, fmt.Errorf("decoding records: %w", err)
		}
	}
	if isPresent(pagination) {
		var p model.Pagination
		if err := json.Unmarshal(pagination, &p); err != nil {
			return nil, fmt.Errorf("decoding pagination: %w", err)
		}
		page.Pagination = &p
	}
	return page, nil
}

func findList(env map[string]json.RawMessage, listKey string) (records, pagination json.RawMessage) {
	pagination = env["pagination"]
	for _, key := range []string{"data", "items", listKey} {
		if key == "" {
			continue
		}
		if v := env[key]; isArray(v) {
			return v, pagination
		}
	}
	return nil, pagination
}

// decodeItem extracts one record from a detail or mutation response: "data",
// then itemKey, else the body itself.
func decodeItem[T any](body []byte, itemKey string) (*T, error) {
	var out T
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &out, nil
	}
	target := json.RawMessage(body)
	var env map[string]json.RawMessage
	if json.Unmarshal(body, &env) == nil {
		if v, ok := asObject(env["data"]); ok && itemKey != "" && isPresent(v[itemKey]) {
			target = v[itemKey]
		} else if isPresent(env["data"]) {
			target = env["data"]
		} else if itemKey != "" && isPresent(env[itemKey]) {
			target = env[itemKey]
		}
	}
	if err := json.Unmarshal(target, &out); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &out, nil
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}

func isPresent(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

func asObject(v json.RawMessage) (map[string]json.RawMessage, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil {
		return nil, false
	}
	return m, true
}
