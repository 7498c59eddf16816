package shasum

import (
	"fmt"
	"hash"
	"strings"

	"github.com/Amaury/shasum/internal/sha2"
)

// Environment variables read by the CLI.
const (
	EnvPass = "SHASUM_PASS"
	EnvAlgo = "SHASUM_ALGO"
)

// DefaultAlgorithm is used when neither a flag nor SHASUM_ALGO selects one.
const DefaultAlgorithm = "sha256"

// Algorithm names one SHA-2 variant. Tag is the BSD-style label used in
// "SHA256 (path) = hex" lines.
type Algorithm struct {
	Name string
	Tag  string
	Size int
	New  func() hash.Hash
}

var algorithms = []Algorithm{
	{Name: "sha224", Tag: "SHA224", Size: sha2.Size224, New: sha2.New224},
	{Name: "sha256", Tag: "SHA256", Size: sha2.Size256, New: sha2.New256},
	{Name: "sha384", Tag: "SHA384", Size: sha2.Size384, New: sha2.New384},
	{Name: "sha512", Tag: "SHA512", Size: sha2.Size512, New: sha2.New512},
	{Name: "sha512/224", Tag: "SHA512/224", Size: sha2.Size512_224, New: sha2.New512_224},
	{Name: "sha512/256", Tag: "SHA512/256", Size: sha2.Size512_256, New: sha2.New512_256},
}

// Algorithms returns the supported variants in a stable order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// LookupAlgorithm resolves a user-supplied name. Matching ignores case,
// dashes and a missing "sha" prefix, and treats "_" as "/", so "SHA-256",
// "256" and "sha512_256" all resolve.
func LookupAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "/")
	if !strings.HasPrefix(key, "sha") {
		key = "sha" + key
	}
	for _, a := range algorithms {
		if a.Name == key {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// FileSuffix is the extension used for sidecar digest files, e.g. ".sha256"
// or ".sha512-256".
func (a Algorithm) FileSuffix() string {
	return "." + strings.ReplaceAll(a.Name, "/", "-")
}
