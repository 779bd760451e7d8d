package upload

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFileSize is the hard cap on a single uploaded document (50 MiB).
const MaxFileSize = 50 * 1024 * 1024

// AllowedExtensions lists the document types the processing pipeline accepts.
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Validate checks filename extension and size against the upload constraints.
// A size of exactly MaxFileSize is still accepted.
func Validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionAllowed(ext) {
		return fmt.Errorf("file type %q is not allowed", ext)
	}
	if size > MaxFileSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", MaxFileSize)
	}
	return nil
}

func extensionAllowed(ext string) bool {
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SanitizeFilename replaces characters outside [a-zA-Z0-9.-] with underscores,
// matching the object-storage key convention.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
