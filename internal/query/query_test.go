package query

import (
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	got := Encode(map[string]any{"b": 2, "a": "x y"})

	if got != "a=x+y&b=2" {
		t.Errorf("Expected a=x+y&b=2, got %s", got)
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Expected empty string, got %s", got)
	}
}

func TestEncodeEscapesKeys(t *testing.T) {
	got := Encode(map[string]any{"a b": "c&d"})

	if got != "a+b=c%26d" {
		t.Errorf("Expected escaped pair, got %s", got)
	}
}

func TestEncodeForm(t *testing.T) {
	got := EncodeForm(map[string]any{"a": "1", "b": "", "c": 0, "d": true})

	if strings.Contains(got, "b=") {
		t.Errorf("Expected empty string skipped, got %s", got)
	}
	if strings.Contains(got, "c=") {
		t.Errorf("Expected zero skipped, got %s", got)
	}
	if !strings.Contains(got, "a=1") {
		t.Errorf("Expected a=1, got %s", got)
	}
	if !strings.Contains(got, "d=true") {
		t.Errorf("Expected d=true, got %s", got)
	}
}

func TestIsFalsy(t *testing.T) {
	falsy := []any{nil, "", false, 0, int64(0), 0.0}
	for _, v := range falsy {
		if !IsFalsy(v) {
			t.Errorf("Expected %v (%T) to be falsy", v, v)
		}
	}

	truthy := []any{"x", true, 1, -1, 0.5, []string{}}
	for _, v := range truthy {
		if IsFalsy(v) {
			t.Errorf("Expected %v (%T) to be truthy", v, v)
		}
	}
}
