package idgen

import (
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	code, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode returned error: %v", err)
	}
	if len(code) != CodeLen {
		t.Fatalf("expected %d chars, got %d (%q)", CodeLen, len(code), code)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeChars, r) {
			t.Fatalf("character %q outside the allowed set", r)
		}
	}
}

func TestNewCodeVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode returned error: %v", err)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 990 {
		t.Fatalf("codes barely vary: %d distinct of 1000", len(seen))
	}
}
