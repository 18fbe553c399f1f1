package core

import (
	"errors"
	"testing"
)

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 0},
		{" \t\r\n\f\x00abc", 6},
		{"% comment\nabc", 10},
		{"% comment", 9},
		{"  %a\r%b\n x", 9},
	}
	for _, tt := range tests {
		if got := skipSpace([]byte(tt.input), 0); got != tt.want {
			t.Errorf("skipSpace(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestScanNumber(t *testing.T) {
	tests := []struct {
		input    string
		wantEnd  int
		wantReal bool
		wantOK   bool
	}{
		{"123 ", 3, false, true},
		{"-7]", 2, false, true},
		{"1.5/", 3, true, true},
		{".5", 2, true, true},
		{"4.", 2, true, true},
		{"-.", 0, false, false},
		{"+", 0, false, false},
		{".", 0, false, false},
		{"abc", 0, false, false},
	}
	for _, tt := range tests {
		end, hasPoint, ok := scanNumber([]byte(tt.input), 0)
		if end != tt.wantEnd || hasPoint != tt.wantReal || ok != tt.wantOK {
			t.Errorf("scanNumber(%q) = %d, %v, %v; want %d, %v, %v",
				tt.input, end, hasPoint, ok, tt.wantEnd, tt.wantReal, tt.wantOK)
		}
	}
}

func TestSyntaxError(t *testing.T) {
	err := error(syntaxErrorf(12, ErrMalformedName, "bad %s", "escape"))
	if got := err.Error(); got != "malformed name at offset 12: bad escape" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrMalformedName) {
		t.Error("SyntaxError should match its kind")
	}
	if errors.Is(err, ErrMalformedString) {
		t.Error("SyntaxError should not match another kind")
	}

	bare := &SyntaxError{Offset: 3, Kind: ErrNoMatch}
	if got := bare.Error(); got != "no value matches input at offset 3" {
		t.Errorf("Error() = %q", got)
	}
}
