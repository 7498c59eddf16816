package sha2

import (
	"encoding/binary"
	"hash"
)

// Digest and block sizes for SHA-224 and SHA-256, in bytes.
const (
	Size224      = 28
	Size256      = 32
	BlockSize256 = 64
)

// Initial hash values (FIPS 180-4 §5.3.2, §5.3.3).
var (
	iv224 = [8]uint32{
		0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939,
		0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4,
	}
	iv256 = [8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}
)

const marshaledSize256 = len(magic256) + 8*4 + BlockSize256 + 8

// digest256 is the running state of a SHA-224 or SHA-256 computation.
type digest256 struct {
	h     [8]uint32
	x     [BlockSize256]byte
	nx    int
	len   uint64
	is224 bool
}

// New256 returns a streaming SHA-256 digest.
func New256() hash.Hash {
	d := new(digest256)
	d.Reset()
	return d
}

// New224 returns a streaming SHA-224 digest.
func New224() hash.Hash {
	d := &digest256{is224: true}
	d.Reset()
	return d
}

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [Size256]byte {
	var d digest256
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

// Sum224 returns the SHA-224 digest of data.
func Sum224(data []byte) [Size224]byte {
	d := digest256{is224: true}
	d.Reset()
	d.Write(data)
	sum := d.checkSum()

	var out [Size224]byte
	copy(out[:], sum[:Size224])
	return out
}

func (d *digest256) Reset() {
	if d.is224 {
		d.h = iv224
	} else {
		d.h = iv256
	}
	d.nx = 0
	d.len = 0
}

func (d *digest256) Size() int {
	if d.is224 {
		return Size224
	}
	return Size256
}

func (d *digest256) BlockSize() int { return BlockSize256 }

// Write absorbs p, compressing every block that fills up. It never fails.
func (d *digest256) Write(p []byte) (int, error) {
	nn := len(p)
	d.len += uint64(nn)

	// Top up a partially filled buffer first.
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize256 {
			block256(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}

	// Compress whole blocks straight from the input.
	if len(p) >= BlockSize256 {
		n := len(p) &^ (BlockSize256 - 1)
		block256(&d.h, p[:n])
		p = p[n:]
	}

	// Keep the remainder for the next write or for padding.
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the digest to b. The running state is left untouched.
func (d *digest256) Sum(b []byte) []byte {
	dc := *d
	sum := dc.checkSum()
	return append(b, sum[:dc.Size()]...)
}

// checkSum pads the message and emits the eight state words big-endian.
// It consumes the state.
func (d *digest256) checkSum() [Size256]byte {
	n := d.len

	// 0x80, zeros up to 56 mod 64, then the bit length in 8 bytes.
	var tmp [BlockSize256 + 8]byte
	tmp[0] = 0x80
	var t uint64
	if n%BlockSize256 < 56 {
		t = 56 - n%BlockSize256
	} else {
		t = BlockSize256 + 56 - n%BlockSize256
	}
	binary.BigEndian.PutUint64(tmp[t:], n<<3)
	d.Write(tmp[:t+8])

	if d.nx != 0 {
		panic("sha2: partial block left after padding")
	}

	var out [Size256]byte
	for i, s := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

func (d *digest256) magic() string {
	if d.is224 {
		return magic224
	}
	return magic256
}

// MarshalBinary checkpoints the running state.
func (d *digest256) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize256)
	b = append(b, d.magic()...)
	for _, s := range d.h {
		b = binary.BigEndian.AppendUint32(b, s)
	}
	b = append(b, d.x[:d.nx]...)
	b = append(b, make([]byte, BlockSize256-d.nx)...)
	b = binary.BigEndian.AppendUint64(b, d.len)
	return b, nil
}

// UnmarshalBinary restores a state produced by MarshalBinary on the same
// variant.
func (d *digest256) UnmarshalBinary(b []byte) error {
	if len(b) != marshaledSize256 || string(b[:len(magic256)]) != d.magic() {
		return ErrInvalidState
	}
	b = b[len(magic256):]
	for i := range d.h {
		d.h[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	b = b[8*4:]
	copy(d.x[:], b[:BlockSize256])
	d.len = binary.BigEndian.Uint64(b[BlockSize256:])
	d.nx = int(d.len % BlockSize256)
	return nil
}
