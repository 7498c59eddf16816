package shasum

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SidecarPath returns the companion digest file for path, e.g.
// "image.tar" -> "image.tar.sha256".
func SidecarPath(path string, algo Algorithm) string {
	return path + algo.FileSuffix()
}

// SaveDigest hashes path with opts and writes a one-line manifest next to it.
func SaveDigest(path string, algo Algorithm, opts SumOptions) error {
	const errCtx = "saving digest"

	e, err := SumFile(path, algo, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}
	return WriteSidecar(path, e, algo)
}

// WriteSidecar stores an already computed entry in the sidecar of path. The
// line names the file by its base name so the sidecar also verifies with
// `sha256sum -c` from the same directory.
func WriteSidecar(path string, e Entry, algo Algorithm) error {
	const errCtx = "writing sidecar"

	e.Path = filepath.Base(path)
	m := &Manifest{Entries: []Entry{e}}
	if err := os.WriteFile(SidecarPath(path, algo), m.Serialize(FormatGNU), 0o644); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}
	return nil
}

// GetDigest reads the stored hex digest from the sidecar of path. It
// returns an empty string with no error when the sidecar does not exist.
func GetDigest(path string, algo Algorithm) (string, error) {
	const errCtx = "getting stored digest"

	content, err := os.ReadFile(SidecarPath(path, algo))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	m, err := ParseManifest(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}
	if len(m.Entries) != 1 {
		return "", fmt.Errorf("%s: %w: expected one line, got %d", errCtx, ErrMalformedLine, len(m.Entries))
	}
	return m.Entries[0].Digest, nil
}

// VerifyDigest compares the current digest of path, read with opts, against
// its sidecar. A missing sidecar verifies as false.
func VerifyDigest(path string, algo Algorithm, opts SumOptions) (bool, error) {
	const errCtx = "verifying digest"

	stored, err := GetDigest(path, algo)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}
	if stored == "" {
		return false, nil
	}

	e, err := SumFile(path, algo, opts)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}
	return e.Digest == stored, nil
}
