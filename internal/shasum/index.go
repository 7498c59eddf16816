package shasum

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Entry is one checksum line. Algorithm is empty for GNU-style lines parsed
// from a manifest, since that layout does not name the algorithm.
type Entry struct {
	Path      string `json:"path"`
	Digest    string `json:"digest"`
	Algorithm string `json:"algorithm,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// Manifest holds checksum entries and serializes them in a canonical,
// path-sorted form.
type Manifest struct {
	Entries []Entry
}

// Format selects the textual layout of a manifest.
type Format int

const (
	// FormatGNU emits "<hex>  <path>" lines as sha256sum does.
	FormatGNU Format = iota
	// FormatBSD emits "SHA256 (<path>) = <hex>" lines as `sha256sum --tag` does.
	FormatBSD
)

// escapeName applies the coreutils escaping rules: backslash, newline and
// carriage return are escaped, and the caller must prefix the whole line
// with a backslash when escaped is true.
func escapeName(name string) (out string, escaped bool) {
	if !strings.ContainsAny(name, "\\\n\r") {
		return name, false
	}
	r := strings.ReplaceAll(name, "\\", "\\\\")
	r = strings.ReplaceAll(r, "\n", "\\n")
	r = strings.ReplaceAll(r, "\r", "\\r")
	return r, true
}

// unescapeName reverses escapeName.
func unescapeName(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}

// formatLine renders e in the requested layout without a trailing newline.
func formatLine(e Entry, f Format) string {
	name, escaped := escapeName(e.Path)
	prefix := ""
	if escaped {
		prefix = "\\"
	}
	if f == FormatBSD {
		tag := strings.ToUpper(e.Algorithm)
		if a, err := LookupAlgorithm(e.Algorithm); err == nil {
			tag = a.Tag
		}
		return prefix + tag + " (" + name + ") = " + strings.ToLower(e.Digest)
	}
	return prefix + strings.ToLower(e.Digest) + "  " + name
}

// canonical returns the entries in canonical order: sorted by path, then
// by digest, using byte ordering (LC_ALL=C), with exact duplicates removed.
// Algorithm and size only break ties so that duplicates end up adjacent.
// Both the text and the JSON writers go through it.
func (m *Manifest) canonical() []Entry {
	entries := make([]Entry, len(m.Entries))
	copy(entries, m.Entries)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		if entries[i].Digest != entries[j].Digest {
			return entries[i].Digest < entries[j].Digest
		}
		if entries[i].Algorithm != entries[j].Algorithm {
			return entries[i].Algorithm < entries[j].Algorithm
		}
		return entries[i].Size < entries[j].Size
	})

	out := entries[:0]
	for i, e := range entries {
		if i > 0 && e == out[len(out)-1] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Serialize returns the canonical textual content of the manifest:
//   - Sort by path, then by digest, using byte ordering (LC_ALL=C)
//   - Deduplicate exact lines
//   - Terminate every line with '\n'
func (m *Manifest) Serialize(f Format) []byte {
	entries := m.canonical()

	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		// Entries differing only in size or algorithm render the same GNU line.
		line := formatLine(e, f)
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteJSON encodes the canonical entries as an indented JSON array.
func (m *Manifest) WriteJSON(w io.Writer) error {
	entries := m.canonical()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ParseManifest reads GNU or BSD checksum lines. Blank lines are skipped;
// anything else that does not parse fails with ErrMalformedLine.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSuffix(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
		}
		m.Entries = append(m.Entries, e)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseLine accepts either layout:
//
//	[\]<hex>  <path>        (GNU, " *" marks binary mode)
//	[\]<TAG> (<path>) = <hex>  (BSD)
func parseLine(line string) (Entry, error) {
	escaped := strings.HasPrefix(line, "\\")
	if escaped {
		line = line[1:]
	}

	var e Entry
	if i := strings.Index(line, " ("); i > 0 && strings.HasPrefix(line, "SHA") {
		j := strings.LastIndex(line, ") = ")
		if j < i {
			return Entry{}, fmt.Errorf("unterminated path: %q", line)
		}
		tag := line[:i]
		a, err := LookupAlgorithm(tag)
		if err != nil {
			return Entry{}, err
		}
		e = Entry{Path: line[i+2 : j], Digest: line[j+4:], Algorithm: a.Name}
	} else {
		sp := strings.IndexByte(line, ' ')
		if sp <= 0 || sp+2 > len(line) || (line[sp+1] != ' ' && line[sp+1] != '*') {
			return Entry{}, fmt.Errorf("bad separator: %q", line)
		}
		e = Entry{Path: line[sp+2:], Digest: line[:sp]}
	}

	if e.Path == "" {
		return Entry{}, fmt.Errorf("empty path: %q", line)
	}
	if _, err := hex.DecodeString(e.Digest); err != nil || e.Digest == "" {
		return Entry{}, fmt.Errorf("bad digest: %q", e.Digest)
	}
	e.Digest = strings.ToLower(e.Digest)

	if escaped {
		p, err := unescapeName(e.Path)
		if err != nil {
			return Entry{}, err
		}
		e.Path = p
	}
	return e, nil
}
