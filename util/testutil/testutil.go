// Package testutil contains helpers shared by the tests of several packages.
package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

// CreateDummyBuf creates a byte slice that is `size` big.
// It's filled with the repeating numbers [0...254].
func CreateDummyBuf(size int64) []byte {
	buf := make([]byte, size)

	for i := int64(0); i < size; i++ {
		// Be evil and stripe the data:
		buf[i] = byte(i % 255)
	}

	return buf
}

// CreateFile writes a file called `name` into `dir`.
// The file will be `size` bytes big, filled with content from CreateDummyBuf.
// The full path of the file is returned.
func CreateFile(t *testing.T, dir, name string, size int64) string {
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, CreateDummyBuf(size), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	return path
}

// TempDir creates a fresh directory in the system's tmp folder.
// Use Remover to get rid of it.
func TempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "grass-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return dir
}

// Remover removes all files in paths recursively and errors when it fails.
// It is no error if there's nothing to delete. It's useful in defer statements.
func Remover(t *testing.T, paths ...string) {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			t.Errorf("removing temp directory failed: %v", err)
		}
	}
}
