// fileops.go - Reading and writing documents
package sitegen

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadDocument loads path as UTF-8 text. Invalid byte sequences are replaced
// with U+FFFD rather than failing the read.
func ReadDocument(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeLossy(raw)
}

func decodeLossy(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

// WriteDocument replaces path with text. The new content is written to a
// temporary file in the same directory and renamed over the original, which
// keeps its permission bits.
func WriteDocument(path, text string) (err error) {
	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".esify-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
