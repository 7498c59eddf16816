package shasum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amaury/shasum/internal/shasum"
)

func mustAlgo(tb testing.TB, name string) shasum.Algorithm {
	tb.Helper()

	a, err := shasum.LookupAlgorithm(name)
	require.NoError(tb, err)

	return a
}

func TestLookupAlgorithm_accepts_spellings(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"sha256":     "sha256",
		"SHA-256":    "sha256",
		"256":        "sha256",
		" sha512 ":   "sha512",
		"SHA384":     "sha384",
		"sha-224":    "sha224",
		"sha512_256": "sha512/256",
		"SHA512/224": "sha512/224",
	}

	for in, want := range cases {
		a, err := shasum.LookupAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, a.Name, in)
	}
}

func TestLookupAlgorithm_unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"md5", "512-256", ""} {
		_, err := shasum.LookupAlgorithm(name)
		assert.ErrorIs(t, err, shasum.ErrUnknownAlgorithm, name)
	}
}

func TestAlgorithms_sizes_match_constructors(t *testing.T) {
	t.Parallel()

	for _, a := range shasum.Algorithms() {
		assert.Equal(t, a.Size, a.New().Size(), a.Name)
	}
}

func TestAlgorithm_FileSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".sha256", mustAlgo(t, "sha256").FileSuffix())
	assert.Equal(t, ".sha512-256", mustAlgo(t, "sha512/256").FileSuffix())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, shasum.ExitCode(nil))
	assert.Equal(t, 2, shasum.ExitCode(shasum.ErrUsage))
	assert.Equal(t, 1, shasum.ExitCode(shasum.ErrChecksumMismatch))
}
