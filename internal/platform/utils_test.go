package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadStringFile(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "test_string")

	// Test successful read
	if err := os.WriteFile(testPath, []byte("  hello world  \n"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	value, ok := readStringFile(testPath)
	if !ok {
		t.Error("readStringFile should return true for valid file")
	}
	if value != "hello world" {
		t.Errorf("readStringFile = %q, want %q", value, "hello world")
	}

	// Test file not found
	value, ok = readStringFile(filepath.Join(tmpDir, "nonexistent"))
	if ok {
		t.Error("readStringFile should return false for nonexistent file")
	}
	if value != "" {
		t.Errorf("readStringFile should return empty string for nonexistent file, got %q", value)
	}
}
