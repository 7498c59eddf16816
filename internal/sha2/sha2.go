// Package sha2 implements the SHA-2 family of digests defined in FIPS 180-4:
// SHA-224, SHA-256, SHA-384, SHA-512, SHA-512/224 and SHA-512/256.
//
// The one-shot Sum functions return fixed-size arrays and do not allocate.
// The New functions return streaming digests implementing hash.Hash whose
// state can be checkpointed with MarshalBinary and resumed with
// UnmarshalBinary.
package sha2

import "errors"

// ErrInvalidState is returned when a marshaled digest state is truncated or
// belongs to a different variant.
var ErrInvalidState = errors.New("sha2: invalid digest state")

// magic prefixes of marshaled states, one per variant.
const (
	magic224    = "sha\x02"
	magic256    = "sha\x03"
	magic384    = "sha\x04"
	magic512224 = "sha\x05"
	magic512256 = "sha\x06"
	magic512    = "sha\x07"
)
