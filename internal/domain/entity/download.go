package entity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Download describes a downloaded artifact. The file at Path lives in
// session-scoped transient storage and is forfeit at session teardown;
// callers that need it afterwards must CopyTo a persistent location first.
type Download struct {
	SuggestedName string
	Path          string
	Size          int64
}

// CopyTo copies the transient artifact into dir under its suggested name
// and returns the persistent path.
func (d *Download) CopyTo(dir string) (string, error) {
	src, err := os.Open(d.Path)
	if err != nil {
		return "", fmt.Errorf("open download %q: %w", d.Path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	dstPath := filepath.Join(dir, d.SuggestedName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy download: %w", err)
	}
	return dstPath, nil
}
