package idgen

import (
	"math"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{9, "9"},
		{10, "A"},
		{35, "Z"},
		{36, "a"},
		{61, "z"},
		{62, "10"},
		{3844, "100"},
		{1234567890, "1LY7VK"},
		{9876543210, "AmOy42"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Encode(tt.input); got != tt.expected {
				t.Errorf("Encode(%d) = %s; want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	for _, code := range []string{"0", "z", "10", "1LY7VK", "AmOy42"} {
		num, err := Decode(code)
		if err != nil {
			t.Fatalf("Decode(%s) unexpected error: %v", code, err)
		}
		if Encode(num) != code {
			t.Errorf("round trip failed: %s -> %d -> %s", code, num, Encode(num))
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	inputs := []string{"", "ab-c", "ab c", "ab/c", "zzzzzzzzzzzzz"}

	for _, in := range inputs {
		if _, err := Decode(in); err == nil {
			t.Errorf("Decode(%q) expected error, got nil", in)
		}
	}
}

func TestEncode_MaxInt64(t *testing.T) {
	code := Encode(math.MaxInt64)

	num, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if num != math.MaxInt64 {
		t.Errorf("round trip failed for MaxInt64: got %d", num)
	}
}
