package shasum

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Amaury/shasum/internal/log"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// readChunk is the buffer size used when streaming content into a digest.
const readChunk = 1 << 20

// chunkPool recycles read buffers across files and tar members.
var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, readChunk)
		return &b
	},
}

// SumOptions controls how inputs are read before hashing.
type SumOptions struct {
	// Zstd decodes each input as a zstd stream and hashes the plaintext.
	Zstd bool
	// Stdin replaces os.Stdin for the "-" path.
	Stdin io.Reader
}

func (o SumOptions) stdin() io.Reader {
	if o.Stdin != nil {
		return o.Stdin
	}
	return os.Stdin
}

// SumReader streams r into a fresh digest and returns the digest and the
// number of bytes consumed.
func SumReader(r io.Reader, algo Algorithm) ([]byte, int64, error) {
	h := algo.New()
	bp := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bp)
	buf := *bp

	// Feed every chunk read, even one returned alongside an error.
	var total int64
	for {
		n, er := r.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
			total += int64(n)
		}
		if er == io.EOF {
			break
		}
		if er != nil {
			return nil, total, er
		}
	}
	return h.Sum(nil), total, nil
}

// SumFile hashes the file at path, or standard input when path is "-".
func SumFile(path string, algo Algorithm, opts SumOptions) (Entry, error) {
	const errCtx = "hashing file"

	// Open the input; "-" reads standard input.
	var src io.Reader
	if path == StdinPath {
		src = opts.stdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", errCtx, err)
		}
		defer f.Close()
		src = f
	}

	// Decode zstd when asked, then stream into the digest.
	r, closeContent, err := openContent(src, opts.Zstd)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}
	defer closeContent()

	sum, n, err := SumReader(r, algo)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	log.With(zap.String("path", path), zap.String("algo", algo.Name)).
		Debug("hashed", zap.Int64("bytes", n))

	return Entry{
		Path:      path,
		Digest:    hex.EncodeToString(sum),
		Algorithm: algo.Name,
		Size:      n,
	}, nil
}

// SumTree hashes every regular file reachable from inputs. Directories are
// walked without following symlinks; symlinks and special files are skipped
// with a warning. The manifest is sorted by path and free of duplicates.
func SumTree(inputs []string, algo Algorithm, opts SumOptions) (*Manifest, error) {
	const errCtx = "hashing tree"

	paths, err := collectFiles(inputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Hash the collected files in sorted order.
	m := &Manifest{}
	for _, p := range paths {
		e, err := SumFile(p, algo, opts)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

// collectFiles expands inputs into a sorted, de-duplicated list of regular
// file paths. "-" is passed through untouched.
func collectFiles(inputs []string) ([]string, error) {
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in == StdinPath {
			paths = append(paths, in)
			continue
		}
		// Walk each input, keeping regular files only.
		in = filepath.Clean(in)
		err := filepath.WalkDir(in, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			kind := classifyEntry(d)
			if kind == 'l' && p == in {
				// Command-line symlinks are followed, nested ones are not.
				if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
					kind = 'f'
				}
			}
			switch kind {
			case 'f':
				paths = append(paths, p)
			case 'd':
				// WalkDir descends on its own.
			default:
				log.With(zap.String("path", p)).Warn("skipping non-regular file", zap.String("type", string(kind)))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Sort with C-locale byte ordering and de-duplicate exact paths.
	sort.Slice(paths, func(i, j int) bool {
		return strings.Compare(paths[i], paths[j]) < 0
	})
	uniq := make([]string, 0, len(paths))
	var last string
	for _, p := range paths {
		if p == last {
			continue
		}
		uniq = append(uniq, p)
		last = p
	}
	return uniq, nil
}

// classifyEntry returns a short type code: 'f' regular, 'd' directory,
// 'l' symlink, 'p' fifo, '?' anything else.
func classifyEntry(d fs.DirEntry) byte {
	mode := d.Type()
	switch {
	case mode.IsRegular():
		return 'f'
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	}
	return '?'
}
