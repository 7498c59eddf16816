package shasum

// KeySession holds a password for key derivation. Close wipes it, so a
// session is single-use once closed.
type KeySession struct {
	password []byte
}

// NewKeySession takes ownership of password; the caller must not reuse the
// slice after Close.
func NewKeySession(password []byte) *KeySession {
	return &KeySession{password: password}
}

// Close attempts to securely wipe the password bytes.
func (s *KeySession) Close() {
	if s.password != nil {
		for i := range s.password {
			s.password[i] = 0
		}
		s.password = nil
	}
}
