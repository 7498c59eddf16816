package shasum_test

import (
	"archive/tar"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amaury/shasum/internal/shasum"
)

func listingTar(tb testing.TB, when time.Time) []byte {
	tb.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdrs := []*tar.Header{
		{Name: "pkg/", Typeflag: tar.TypeDir, Mode: 0o755},
		{Name: "pkg/bin", Typeflag: tar.TypeReg, Mode: 0o755, Size: 4},
		{Name: "pkg/link", Typeflag: tar.TypeSymlink, Linkname: "bin", Mode: 0o777},
		{Name: "doc/readme", Typeflag: tar.TypeReg, Mode: 0o644, Size: 2},
	}
	bodies := map[string]string{"pkg/bin": "exec", "doc/readme": "hi"}
	for _, h := range hdrs {
		h.Uname, h.Gname = "build", "staff"
		h.ModTime = when
		require.NoError(tb, tw.WriteHeader(h))
		if body, ok := bodies[h.Name]; ok {
			_, err := tw.Write([]byte(body))
			require.NoError(tb, err)
		}
	}
	require.NoError(tb, tw.Close())

	return buf.Bytes()
}

func TestListTar_prints_members_in_archive_order(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	stamp := when.In(time.Local).Format("2006-01-02 15:04")
	raw := listingTar(t, when)

	var out bytes.Buffer
	err := shasum.ListTar(bytes.NewReader(raw), mustAlgo(t, "sha256"), shasum.SumOptions{}, nil, &out)
	require.NoError(t, err)

	want := strings.Join([]string{
		"d 0755 build:staff " + stamp + " - pkg/",
		"- 0755 build:staff " + stamp + " " + hex256("exec") + " pkg/bin",
		"l 0777 build:staff " + stamp + " - pkg/link",
		"- 0644 build:staff " + stamp + " " + hex256("hi") + " doc/readme",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
}

func TestListTar_prefix_filter_and_zstd(t *testing.T) {
	t.Parallel()

	raw := zstdBytes(t, listingTar(t, time.Unix(0, 0)))

	var out bytes.Buffer
	err := shasum.ListTar(bytes.NewReader(raw), mustAlgo(t, "sha256"), shasum.SumOptions{Zstd: true}, []string{"doc/"}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], hex256("hi")+" doc/readme"), lines[0])
}
