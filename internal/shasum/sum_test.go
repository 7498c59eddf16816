package shasum_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amaury/shasum/internal/sha2"
	"github.com/Amaury/shasum/internal/shasum"
)

// writeTemp creates a file with content under dir and returns its path.
func writeTemp(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(tb, os.MkdirAll(filepath.Dir(pa), 0o755))
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func hex256(s string) string {
	sum := sha2.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func zstdBytes(tb testing.TB, plain []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(tb, err)
	_, err = enc.Write(plain)
	require.NoError(tb, err)
	require.NoError(tb, enc.Close())

	return buf.Bytes()
}

func TestSumReader_matches_engine(t *testing.T) {
	t.Parallel()

	msg := strings.Repeat("0123456789", 300_000)
	sum, n, err := shasum.SumReader(strings.NewReader(msg), mustAlgo(t, "sha512"))

	require.NoError(t, err)
	assert.Equal(t, int64(len(msg)), n)
	want := sha2.Sum512([]byte(msg))
	assert.Equal(t, want[:], sum)
}

func TestSumFile_regular_file(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "hello.txt", "hello")

	e, err := shasum.SumFile(pa, mustAlgo(t, "sha256"), shasum.SumOptions{})

	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", e.Digest)
	assert.Equal(t, pa, e.Path)
	assert.Equal(t, "sha256", e.Algorithm)
	assert.Equal(t, int64(5), e.Size)
}

func TestSumFile_stdin(t *testing.T) {
	t.Parallel()

	e, err := shasum.SumFile("-", mustAlgo(t, "sha256"), shasum.SumOptions{Stdin: strings.NewReader("abc")})

	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", e.Digest)
}

func TestSumFile_zstd_hashes_plaintext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := strings.Repeat("compressible ", 10_000)
	pa := filepath.Join(dir, "data.zst")
	require.NoError(t, os.WriteFile(pa, zstdBytes(t, []byte(plain)), 0o600))

	e, err := shasum.SumFile(pa, mustAlgo(t, "sha256"), shasum.SumOptions{Zstd: true})

	require.NoError(t, err)
	assert.Equal(t, hex256(plain), e.Digest)
	assert.Equal(t, int64(len(plain)), e.Size)
}

func TestSumFile_missing(t *testing.T) {
	t.Parallel()

	_, err := shasum.SumFile(filepath.Join(t.TempDir(), "nope"), mustAlgo(t, "sha256"), shasum.SumOptions{})

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSumTree_walks_sorted_and_deduplicated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := writeTemp(t, dir, "b.txt", "bee")
	a := writeTemp(t, dir, "sub/a.txt", "ay")
	require.NoError(t, os.Symlink(b, filepath.Join(dir, "link")))

	m, err := shasum.SumTree([]string{dir, b}, mustAlgo(t, "sha256"), shasum.SumOptions{})

	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, b, m.Entries[0].Path)
	assert.Equal(t, hex256("bee"), m.Entries[0].Digest)
	assert.Equal(t, a, m.Entries[1].Path)
	assert.Equal(t, hex256("ay"), m.Entries[1].Digest)
}

func TestSumTree_follows_symlink_argument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeTemp(t, dir, "target", "content")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	m, err := shasum.SumTree([]string{link}, mustAlgo(t, "sha256"), shasum.SumOptions{})

	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, hex256("content"), m.Entries[0].Digest)
}

func TestSumTree_empty_file(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "empty", "")

	m, err := shasum.SumTree([]string{pa}, mustAlgo(t, "sha256"), shasum.SumOptions{})

	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", m.Entries[0].Digest)
}

// Not parallel: reads process-wide allocation counters.
func TestSumReader_reuses_read_buffer(t *testing.T) {
	algo := mustAlgo(t, "sha256")
	_, _, err := shasum.SumReader(strings.NewReader("warm up"), algo)
	require.NoError(t, err)

	const runs = 50
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for i := 0; i < runs; i++ {
		_, _, err := shasum.SumReader(strings.NewReader("small input"), algo)
		require.NoError(t, err)
	}
	runtime.ReadMemStats(&after)

	// A fresh 1 MiB buffer per call would total runs MiB.
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(8<<20))
}
