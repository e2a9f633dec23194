// Package testutil provides helper functions for testing citescan components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/citescan/internal/parser"
)

// ParseDocument parses content and fails the test when nothing could be extracted
func ParseDocument(t *testing.T, content string, format parser.Format) *parser.StructuralDocument {
	t.Helper()
	doc := parser.Parse(content, format)
	if doc == nil {
		t.Fatal("Parse returned nil document")
	}
	return doc
}

// WriteFile writes content to name under dir, creating parent directories, and returns its path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ContentTree creates a temporary directory holding files (relative name -> content)
func ContentTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		WriteFile(t, root, name, content)
	}
	return root
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}
