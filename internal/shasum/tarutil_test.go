package shasum_test

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amaury/shasum/internal/shasum"
)

// tarBytes builds an in-memory tar with one directory and the given files.
func tarBytes(tb testing.TB, files map[string]string, order []string) []byte {
	tb.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(tb, tw.WriteHeader(&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for _, name := range order {
		content := files[name]
		require.NoError(tb, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(tb, err)
	}
	require.NoError(tb, tw.Close())

	return buf.Bytes()
}

func TestSumTar_hashes_regular_members(t *testing.T) {
	t.Parallel()

	files := map[string]string{"dir/one": "1", "dir/two": "second member"}
	raw := tarBytes(t, files, []string{"dir/one", "dir/two"})

	m, err := shasum.SumTar(bytes.NewReader(raw), mustAlgo(t, "sha256"), shasum.SumOptions{})

	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "dir/one", m.Entries[0].Path)
	assert.Equal(t, hex256("1"), m.Entries[0].Digest)
	assert.Equal(t, "dir/two", m.Entries[1].Path)
	assert.Equal(t, hex256("second member"), m.Entries[1].Digest)
}

func TestSumTar_zstd_archive(t *testing.T) {
	t.Parallel()

	files := map[string]string{"a": "alpha"}
	raw := zstdBytes(t, tarBytes(t, files, []string{"a"}))

	m, err := shasum.SumTar(bytes.NewReader(raw), mustAlgo(t, "sha256"), shasum.SumOptions{Zstd: true})

	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, hex256("alpha"), m.Entries[0].Digest)
}

func TestSumTar_truncated_stream(t *testing.T) {
	t.Parallel()

	raw := tarBytes(t, map[string]string{"a": "alpha"}, []string{"a"})

	_, err := shasum.SumTar(bytes.NewReader(raw[:600]), mustAlgo(t, "sha256"), shasum.SumOptions{})

	assert.Error(t, err)
}
