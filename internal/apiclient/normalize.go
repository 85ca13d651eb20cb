package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sovannvath/storefront-gateway/domain"
)

// maxEnvelopeDepth bounds how many "data" wrappers are peeled off
const maxEnvelopeDepth = 3

// NormalizeList extracts a list from any of the envelopes the backend uses:
// a bare array, {data:[...]}, {<key>:[...]}, {data:{<key>:[...]}} and
// paginated {data:{data:[...]}}. An empty or null body is an empty list.
func NormalizeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	node, err := findList(raw, keys, 0)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(node, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// NormalizeItem extracts a single entity from a bare object, {<key>:{...}},
// {data:{...}} or {data:{<key>:{...}}}.
func NormalizeItem[T any](raw json.RawMessage, keys ...string) (*T, error) {
	node, err := findItem(raw, keys, 0)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(node, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &out, nil
}

func findList(raw json.RawMessage, keys []string, depth int) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return json.RawMessage("[]"), nil
	}
	switch raw[0] {
	case '[':
		return raw, nil
	case '{':
		if depth >= maxEnvelopeDepth {
			break
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		for _, k := range keys {
			if v, ok := obj[k]; ok {
				return findList(v, keys, depth+1)
			}
		}
		if v, ok := obj["data"]; ok {
			return findList(v, keys, depth+1)
		}
	}
	return nil, fmt.Errorf("%w: no list in %.64s", domain.ErrMalformedResponse, raw)
}

func findItem(raw json.RawMessage, keys []string, depth int) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: expected object, got %.64s", domain.ErrMalformedResponse, raw)
	}
	if depth >= maxEnvelopeDepth {
		return raw, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok && isObject(v) {
			return findItem(v, keys, depth+1)
		}
	}
	if v, ok := obj["data"]; ok && isObject(v) {
		return findItem(v, keys, depth+1)
	}
	return raw, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
