package shasum

import (
	"archive/tar"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Amaury/shasum/internal/log"
)

// SumTar hashes every regular member of a tar stream without extracting it.
// With opts.Zstd the stream is zstd-decoded first, so .tar.zst archives work
// directly. Entry paths are the member names as stored.
func SumTar(r io.Reader, algo Algorithm, opts SumOptions) (*Manifest, error) {
	const errCtx = "hashing tar members"

	src, closeContent, err := openContent(r, opts.Zstd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}
	defer closeContent()

	m := &Manifest{}
	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		sum, n, err := SumReader(tr, algo)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", errCtx, hdr.Name, err)
		}
		log.With(zap.String("member", hdr.Name), zap.String("algo", algo.Name)).
			Debug("hashed", zap.Int64("bytes", n))

		m.Entries = append(m.Entries, Entry{
			Path:      hdr.Name,
			Digest:    hex.EncodeToString(sum),
			Algorithm: algo.Name,
			Size:      n,
		})
	}
	return m, nil
}

// SumTarFiles runs SumTar over each archive path ("-" is stdin) and merges
// the results.
func SumTarFiles(archives []string, algo Algorithm, opts SumOptions) (*Manifest, error) {
	m := &Manifest{}
	for _, p := range archives {
		var (
			part *Manifest
			err  error
		)
		if p == StdinPath {
			part, err = SumTar(opts.stdin(), algo, opts)
		} else {
			var f *os.File
			f, err = os.Open(p)
			if err != nil {
				return nil, err
			}
			part, err = SumTar(f, algo, opts)
			f.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		m.Entries = append(m.Entries, part.Entries...)
	}
	return m, nil
}
