package logging

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// MaxValueLogLength is the maximum length of a request value to log
	MaxValueLogLength = 100
	// DataDirText replaces the server data directory in client-facing text
	DataDirText = "<data>"
)

// Pattern to match user home directories in absolute paths
var homeDirPattern = regexp.MustCompile(`(/home|/Users)/[^/\s]+`)

// SanitizePath removes the server data directory from msg.
// Use this before returning any error text to a client: paths below the
// data directory become relative to it and home directories are masked.
func SanitizePath(basePath, msg string) string {
	if msg == "" {
		return ""
	}

	sanitized := msg
	if base := strings.TrimRight(filepath.Clean(basePath), string(filepath.Separator)); basePath != "" && base != "" {
		prefix := regexp.MustCompile(regexp.QuoteMeta(base) + `(` + regexp.QuoteMeta(string(filepath.Separator)) + `)?`)
		sanitized = prefix.ReplaceAllString(sanitized, DataDirText+"${1}")
	}

	// Mask home directories outside the data directory
	sanitized = homeDirPattern.ReplaceAllString(sanitized, "~")

	return sanitized
}

// SanitizeError sanitizes an error message for a client.
func SanitizeError(basePath string, err error) string {
	if err == nil {
		return ""
	}
	return SanitizePath(basePath, err.Error())
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
