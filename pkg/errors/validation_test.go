package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "photos/a.jpg", false},
		{"absolute", "/home/me/a.png", false},
		{"with spaces", "My Pictures/a b.png", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"pdf", "out.pdf", false},
		{"upper PDF", "out.PDF", false},
		{"no extension", "out", false},

		{"empty", "", true},
		{"png", "out.png", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeOutputPath(t *testing.T) {
	tests := map[string]string{
		"out":         "out.pdf",
		"out.pdf":     "out.pdf",
		"dir/out.PDF": "dir/out.PDF",
	}
	for in, want := range tests {
		if got := NormalizeOutputPath(in); got != want {
			t.Errorf("NormalizeOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
