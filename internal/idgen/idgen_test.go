package idgen

import (
	"regexp"
	"testing"
)

func TestRequestID_Length(t *testing.T) {
	id, err := RequestID()
	if err != nil {
		t.Fatalf("RequestID() error: %v", err)
	}
	wantLen := len(RequestPrefix) + Length
	if len(id) != wantLen {
		t.Errorf("RequestID() length = %d, want %d (id=%q)", len(id), wantLen, id)
	}
}

func TestRequestID_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(RequestPrefix) + `[a-zA-Z0-9]+$`)
	for i := 0; i < 100; i++ {
		id := MustRequestID()
		if !pattern.MatchString(id) {
			t.Fatalf("MustRequestID() = %q, does not match expected charset pattern", id)
		}
	}
}

func TestRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := MustRequestID()
		if seen[id] {
			t.Fatalf("duplicate ID %q on iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestWithPrefix(t *testing.T) {
	id, err := WithPrefix("exp-")
	if err != nil {
		t.Fatalf("WithPrefix() error: %v", err)
	}
	if id[:4] != "exp-" {
		t.Errorf("WithPrefix(exp-) = %q, want exp- prefix", id)
	}
}
