package shasum

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CheckOptions controls manifest verification.
type CheckOptions struct {
	// Algorithm is used for GNU lines, which do not name one.
	Algorithm Algorithm
	// Prefixes restricts verification to matching paths; empty means all.
	Prefixes []string
	// BaseDir resolves relative manifest paths. Empty means the working
	// directory.
	BaseDir string
	// Quiet suppresses the per-file OK lines.
	Quiet bool
	Sum   SumOptions
	Out   io.Writer
}

// CheckResult counts the outcome of a verification run.
type CheckResult struct {
	OK      int
	Failed  int
	Missing int
}

// Check recomputes every selected entry and reports "path: OK",
// "path: FAILED" or "path: MISSING" to opts.Out. It returns
// ErrChecksumMismatch when any entry failed or was missing.
func Check(m *Manifest, opts CheckOptions) (CheckResult, error) {
	var res CheckResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, e := range m.Entries {
		if !matchesPrefix(e.Path, opts.Prefixes) {
			continue
		}

		// GNU lines use the requested algorithm, BSD lines name their own.
		algo := opts.Algorithm
		if algo.New == nil {
			algo, _ = LookupAlgorithm(DefaultAlgorithm)
		}
		if e.Algorithm != "" {
			a, err := LookupAlgorithm(e.Algorithm)
			if err != nil {
				return res, err
			}
			algo = a
		}

		// Resolve relative paths against BaseDir when one is given.
		path := e.Path
		if opts.BaseDir != "" && path != StdinPath && !filepath.IsAbs(path) {
			path = filepath.Join(opts.BaseDir, path)
		}

		// Recompute and classify the outcome.
		status := "OK"
		got, err := SumFile(path, algo, opts.Sum)
		switch {
		case errors.Is(err, os.ErrNotExist):
			status = "MISSING"
			res.Missing++
		case err != nil:
			status = "FAILED open or read"
			res.Missing++
		case len(e.Digest) != 2*algo.Size || got.Digest != e.Digest:
			status = "FAILED"
			res.Failed++
		default:
			res.OK++
		}

		// Report the outcome, skipping OK lines in quiet mode.
		if status == "OK" && opts.Quiet {
			continue
		}
		name, _ := escapeName(e.Path)
		if _, err := fmt.Fprintf(out, "%s: %s\n", name, status); err != nil {
			return res, fmt.Errorf("write check result: %w", err)
		}
	}

	if bad := res.Failed + res.Missing; bad > 0 {
		return res, fmt.Errorf("%w: %d of %d computed checksums did NOT match",
			ErrChecksumMismatch, bad, bad+res.OK)
	}
	return res, nil
}

// CheckFile parses the manifest at path and verifies it. Relative entries
// resolve from the working directory, as with `sha256sum -c`, unless
// opts.BaseDir is set.
func CheckFile(path string, opts CheckOptions) (CheckResult, error) {
	const errCtx = "checking manifest"

	// Read the manifest from stdin or from the named file.
	r := opts.Sum.stdin()
	if path != StdinPath {
		f, err := os.Open(path)
		if err != nil {
			return CheckResult{}, fmt.Errorf("%s: %w", errCtx, err)
		}
		defer f.Close()
		r = f
	}

	m, err := ParseManifest(r)
	if err != nil {
		return CheckResult{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}
	return Check(m, opts)
}

// matchesPrefix checks whether a path matches any of the optional prefixes.
func matchesPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
