package shasum_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amaury/shasum/internal/shasum"
)

// manifestFor writes a GNU manifest of relative paths into dir.
func manifestFor(tb testing.TB, dir string, files map[string]string) string {
	tb.Helper()

	m := &shasum.Manifest{}
	for name, content := range files {
		writeTemp(tb, dir, name, content)
		m.Entries = append(m.Entries, shasum.Entry{Path: name, Digest: hex256(content)})
	}
	pa := filepath.Join(dir, "SHA256SUMS")
	require.NoError(tb, os.WriteFile(pa, m.Serialize(shasum.FormatGNU), 0o600))

	return pa
}

func TestCheckFile_all_ok(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := manifestFor(t, dir, map[string]string{"a": "alpha", "sub/b": "beta"})

	var out bytes.Buffer
	res, err := shasum.CheckFile(pa, shasum.CheckOptions{Algorithm: mustAlgo(t, "sha256"), BaseDir: dir, Out: &out})

	require.NoError(t, err)
	assert.Equal(t, shasum.CheckResult{OK: 2}, res)
	assert.Equal(t, "a: OK\nsub/b: OK\n", out.String())
}

func TestCheckFile_detects_tampering_and_missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := manifestFor(t, dir, map[string]string{"a": "alpha", "b": "beta", "c": "gamma"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("tampered"), 0o600))
	require.NoError(t, os.Remove(filepath.Join(dir, "c")))

	var out bytes.Buffer
	res, err := shasum.CheckFile(pa, shasum.CheckOptions{
		Algorithm: mustAlgo(t, "sha256"),
		BaseDir:   dir,
		Out:       &out,
		Quiet:     true,
	})

	require.ErrorIs(t, err, shasum.ErrChecksumMismatch)
	assert.Equal(t, shasum.CheckResult{OK: 1, Failed: 1, Missing: 1}, res)
	assert.Equal(t, "a: FAILED\nc: MISSING\n", out.String())
}

func TestCheckFile_prefix_filter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := manifestFor(t, dir, map[string]string{"keep/a": "alpha", "skip/b": "beta"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip/b"), []byte("tampered"), 0o600))

	res, err := shasum.CheckFile(pa, shasum.CheckOptions{
		Algorithm: mustAlgo(t, "sha256"),
		BaseDir:   dir,
		Prefixes:  []string{"keep/"},
	})

	require.NoError(t, err)
	assert.Equal(t, shasum.CheckResult{OK: 1}, res)
}

func TestCheckFile_wrong_algorithm_fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := manifestFor(t, dir, map[string]string{"a": "alpha"})

	res, err := shasum.CheckFile(pa, shasum.CheckOptions{Algorithm: mustAlgo(t, "sha512"), BaseDir: dir})

	require.ErrorIs(t, err, shasum.ErrChecksumMismatch)
	assert.Equal(t, 1, res.Failed)
}

func TestCheck_bsd_lines_carry_their_algorithm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := writeTemp(t, dir, "f", "payload")

	e, err := shasum.SumFile(pa, mustAlgo(t, "sha384"), shasum.SumOptions{})
	require.NoError(t, err)
	m := &shasum.Manifest{Entries: []shasum.Entry{e}}

	parsed, err := shasum.ParseManifest(bytes.NewReader(m.Serialize(shasum.FormatBSD)))
	require.NoError(t, err)

	res, err := shasum.Check(parsed, shasum.CheckOptions{Algorithm: mustAlgo(t, "sha256")})

	require.NoError(t, err)
	assert.Equal(t, 1, res.OK)
}

func TestCheckFile_malformed_manifest(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "SUMS", "garbage\n")

	_, err := shasum.CheckFile(pa, shasum.CheckOptions{})

	assert.ErrorIs(t, err, shasum.ErrMalformedLine)
}

func TestCheckFile_relative_paths_without_base_dir_use_working_directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := manifestFor(t, dir, map[string]string{"only-in-tempdir": "alpha"})

	var out bytes.Buffer
	res, err := shasum.CheckFile(pa, shasum.CheckOptions{Algorithm: mustAlgo(t, "sha256"), Out: &out})

	require.ErrorIs(t, err, shasum.ErrChecksumMismatch)
	assert.Equal(t, shasum.CheckResult{Missing: 1}, res)
	assert.Equal(t, "only-in-tempdir: MISSING\n", out.String())
}
