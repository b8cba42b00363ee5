package logging

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			basePath: "/srv/chemmd",
			input:    "",
			expected: "",
		},
		{
			name:     "datafile below base path",
			basePath: "/srv/chemmd",
			input:    "csv_access_error path=/srv/chemmd/aluminate/al.csv failed to open datafile",
			expected: "csv_access_error path=<data>/aluminate/al.csv failed to open datafile",
		},
		{
			name:     "trailing separator on base path",
			basePath: "/srv/chemmd/",
			input:    "not_found path=/srv/chemmd/missing dataset directory does not exist",
			expected: "not_found path=<data>/missing dataset directory does not exist",
		},
		{
			name:     "base path itself",
			basePath: "/srv/chemmd",
			input:    "open /srv/chemmd: permission denied",
			expected: "open <data>: permission denied",
		},
		{
			name:     "multiple occurrences",
			basePath: "/srv/chemmd",
			input:    "/srv/chemmd/a.csv and /srv/chemmd/b.csv",
			expected: "<data>/a.csv and <data>/b.csv",
		},
		{
			name:     "regex characters in base path",
			basePath: "/srv/chem+md (v1)",
			input:    "open /srv/chem+md (v1)/a.csv",
			expected: "open <data>/a.csv",
		},
		{
			name:     "home directory outside base path",
			basePath: "/srv/chemmd",
			input:    "open /home/alice/data/a.csv: no such file",
			expected: "open ~/data/a.csv: no such file",
		},
		{
			name:     "no base path",
			basePath: "",
			input:    "factor_type is required",
			expected: "factor_type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizePath(tt.basePath, tt.input)
			if result != tt.expected {
				t.Errorf("SanitizePath() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	if got := SanitizeError("/srv", nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}

	err := errors.New("open /srv/set/gq.json: no such file or directory")
	got := SanitizeError("/srv", err)
	if strings.Contains(got, "/srv/") {
		t.Errorf("SanitizeError() leaked base path: %q", got)
	}
	if !strings.Contains(got, "<data>/set/gq.json") {
		t.Errorf("SanitizeError() = %q, want relative dataset path", got)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is longer than ten", 10, "this is lo..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		result := TruncateString(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console", "JSON"} {
		logger, err := NewLogger("debug", format)
		if err != nil {
			t.Fatalf("NewLogger(debug, %s) failed: %v", format, err)
		}
		if !logger.Core().Enabled(-1) {
			t.Errorf("expected debug level enabled for format %s", format)
		}
	}

	logger, err := NewLogger("WARN", "json")
	if err != nil {
		t.Fatalf("NewLogger(WARN) failed: %v", err)
	}
	if logger.Core().Enabled(0) {
		t.Error("expected info level disabled at warn")
	}

	if _, err := NewLogger("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}
