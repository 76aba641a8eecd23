package static

import (
	"bytes"
	"errors"
	"testing"
)

func TestRegisterTransformAndLookup(t *testing.T) {
	if err := RegisterTransform("Upper-Case ", func(body []byte) ([]byte, error) {
		return bytes.ToUpper(body), nil
	}); err != nil {
		t.Fatalf("RegisterTransform error: %v", err)
	}

	// Lookup normalizes case and whitespace the same way registration does.
	fn, ok := LookupTransform("upper-case")
	if !ok {
		t.Fatalf("expected transform to be registered")
	}
	out, err := fn([]byte("abc"))
	if err != nil || string(out) != "ABC" {
		t.Fatalf("transform output mismatch: %q err=%v", out, err)
	}
}

func TestRegisterTransformRejectsDuplicates(t *testing.T) {
	identity := func(body []byte) ([]byte, error) { return body, nil }
	if err := RegisterTransform("dup-key", identity); err != nil {
		t.Fatalf("first registration should succeed: %v", err)
	}
	err := RegisterTransform("DUP-KEY", identity)
	if !errors.Is(err, ErrTransformExists) {
		t.Fatalf("expected ErrTransformExists, got %v", err)
	}
}

func TestRegisterTransformValidatesInput(t *testing.T) {
	if err := RegisterTransform("", func(body []byte) ([]byte, error) { return body, nil }); err == nil {
		t.Fatalf("empty key must be rejected")
	}
	if err := RegisterTransform("nil-func", nil); err == nil {
		t.Fatalf("nil func must be rejected")
	}
	if _, ok := LookupTransform("never-registered"); ok {
		t.Fatalf("unknown key must not resolve")
	}
}
