package shasum

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations matches the OpenSSL `enc -pbkdf2` default.
const DefaultIterations = 10000

// KDF modes accepted by Derive.
const (
	ModePBKDF2 = "pbkdf2"
	ModeHKDF   = "hkdf"
)

// KDFParams configures Derive. KeyLen zero means the digest size.
type KDFParams struct {
	Mode       string
	Salt       []byte
	Info       []byte
	Iterations int
	KeyLen     int
	Algorithm  Algorithm
}

// Derive stretches the session password with PBKDF2-HMAC or HKDF built on
// the package's own SHA-2 digests.
func (s *KeySession) Derive(p KDFParams) ([]byte, error) {
	const errCtx = "deriving key"

	if len(s.password) == 0 {
		return nil, fmt.Errorf("%s: %w: empty password", errCtx, ErrUsage)
	}
	keyLen := p.KeyLen
	if keyLen == 0 {
		keyLen = p.Algorithm.Size
	}
	if keyLen < 0 {
		return nil, fmt.Errorf("%s: %w: negative key length", errCtx, ErrUsage)
	}

	switch p.Mode {
	case ModePBKDF2, "":
		iter := p.Iterations
		if iter == 0 {
			iter = DefaultIterations
		}
		if iter < 0 {
			return nil, fmt.Errorf("%s: %w: negative iteration count", errCtx, ErrUsage)
		}
		return pbkdf2.Key(s.password, p.Salt, iter, keyLen, p.Algorithm.New), nil

	case ModeHKDF:
		if keyLen > 255*p.Algorithm.Size {
			return nil, fmt.Errorf("%s: %w: hkdf key length above %d", errCtx, ErrUsage, 255*p.Algorithm.Size)
		}
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(hkdf.New(p.Algorithm.New, s.password, p.Salt, p.Info), key); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("%s: %w: unknown mode %q", errCtx, ErrUsage, p.Mode)
	}
}

// HMACReader computes HMAC(key, content of r) over the selected digest.
func HMACReader(r io.Reader, key []byte, algo Algorithm) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("hmac key must not be empty")
	}
	mac := hmac.New(algo.New, key)
	if _, err := io.Copy(mac, r); err != nil {
		return nil, err
	}
	return mac.Sum(nil), nil
}
