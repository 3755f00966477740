package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// splitField splits "key=value" into (key, value, true).
// Returns ("", "", false) if there is no '=' or key is empty.
func splitField(s string) (string, string, bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// rawOrString returns a json.RawMessage if v looks like a JSON literal
// (object, array, quoted string, boolean, null, or number). Otherwise it
// returns v as a plain Go string so json.Marshal will quote it.
func rawOrString(v string) any {
	if len(v) == 0 {
		return v
	}
	switch v[0] {
	case '{', '[', '"':
		if json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
	default:
		if v == "true" || v == "false" || v == "null" {
			return json.RawMessage(v)
		}
		// Leading zeros (phone numbers, employee codes) stay strings.
		if (v[0] == '-' || unicode.IsDigit(rune(v[0]))) && !hasLeadingZero(v) {
			if json.Valid([]byte(v)) {
				return json.RawMessage(v)
			}
		}
	}
	return v // will be JSON-quoted as a string
}

func hasLeadingZero(v string) bool {
	v = strings.TrimPrefix(v, "-")
	return len(v) > 1 && v[0] == '0' && v[1] != '.'
}

// buildBody merges an optional JSON file (or "-" for stdin) with --set
// pairs into a request body. Pairs override keys from the file, and a
// dotted key ("address.city=Pune") sets a nested object field.
func buildBody(file string, stdin io.Reader, pairs []string) (map[string]any, error) {
	body := map[string]any{}
	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("parsing %s: expected a JSON object: %w", file, err)
		}
	}
	for _, p := range pairs {
		k, v, ok := splitField(p)
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected key=value", p)
		}
		if err := setPath(body, strings.Split(k, "."), decodeValue(v)); err != nil {
			return nil, fmt.Errorf("invalid field %q: %w", p, err)
		}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("nothing to send: use --set key=value or --file")
	}
	return body, nil
}

// decodeValue turns a --set value into the Go value the validators see:
// JSON literals are decoded, everything else stays a string.
func decodeValue(v string) any {
	raw, ok := rawOrString(v).(json.RawMessage)
	if !ok {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func setPath(m map[string]any, path []string, v any) error {
	for i, key := range path {
		if key == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			m[key] = v
			return nil
		}
		next, ok := m[key].(map[string]any)
		if !ok {
			if _, exists := m[key]; exists {
				return fmt.Errorf("%s is not an object", key)
			}
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	return nil
}

// stringField returns body[key] as a string, or "" when absent.
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
