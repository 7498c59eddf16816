package sha2

import (
	"encoding/binary"
	"hash"
)

// Digest and block sizes for the SHA-512 family, in bytes.
const (
	Size384      = 48
	Size512      = 64
	Size512_224  = 28
	Size512_256  = 32
	BlockSize512 = 128
)

// variant512 selects the initial hash value and output truncation.
type variant512 uint8

const (
	variant512Full variant512 = iota
	variant384
	variant512_224
	variant512_256
)

// Initial hash values (FIPS 180-4 §5.3.4 - §5.3.6).
var iv512 = [...][8]uint64{
	variant512Full: {
		0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
		0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
	},
	variant384: {
		0xcbbb9d5dc1059ed8, 0x629a292a367cd507, 0x9159015a3070dd17, 0x152fecd8f70e5939,
		0x67332667ffc00b31, 0x8eb44a8768581511, 0xdb0c2e0d64f98fa7, 0x47b5481dbefa4fa4,
	},
	variant512_224: {
		0x8c3d37c819544da2, 0x73e1996689dcd4d6, 0x1dfab7ae32ff9c82, 0x679dd514582f9fcf,
		0x0f6d2b697bd44da8, 0x77e36f7304c48942, 0x3f9d85a86a1d36c8, 0x1112e6ad91d692a1,
	},
	variant512_256: {
		0x22312194fc2bf72c, 0x9f555fa3c84c64c2, 0x2393b86b6f53b151, 0x963877195940eabd,
		0x96283ee2a88effe3, 0xbe5e1e2553863992, 0x2b0199fc2c85b8aa, 0x0eb72ddc81c52ca2,
	},
}

var (
	size512   = [...]int{variant512Full: Size512, variant384: Size384, variant512_224: Size512_224, variant512_256: Size512_256}
	magic512s = [...]string{variant512Full: magic512, variant384: magic384, variant512_224: magic512224, variant512_256: magic512256}
)

const marshaledSize512 = len(magic512) + 8*8 + BlockSize512 + 8

// digest512 is the running state of a SHA-512 family computation.
type digest512 struct {
	h       [8]uint64
	x       [BlockSize512]byte
	nx      int
	len     uint64
	variant variant512
}

func newDigest512(v variant512) *digest512 {
	d := &digest512{variant: v}
	d.Reset()
	return d
}

// New512 returns a streaming SHA-512 digest.
func New512() hash.Hash { return newDigest512(variant512Full) }

// New384 returns a streaming SHA-384 digest.
func New384() hash.Hash { return newDigest512(variant384) }

// New512_224 returns a streaming SHA-512/224 digest.
func New512_224() hash.Hash { return newDigest512(variant512_224) }

// New512_256 returns a streaming SHA-512/256 digest.
func New512_256() hash.Hash { return newDigest512(variant512_256) }

// Sum512 returns the SHA-512 digest of data.
func Sum512(data []byte) [Size512]byte {
	d := digest512{variant: variant512Full}
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

// Sum384 returns the SHA-384 digest of data.
func Sum384(data []byte) [Size384]byte {
	d := digest512{variant: variant384}
	d.Reset()
	d.Write(data)
	sum := d.checkSum()

	var out [Size384]byte
	copy(out[:], sum[:Size384])
	return out
}

// Sum512_224 returns the SHA-512/224 digest of data.
func Sum512_224(data []byte) [Size512_224]byte {
	d := digest512{variant: variant512_224}
	d.Reset()
	d.Write(data)
	sum := d.checkSum()

	var out [Size512_224]byte
	copy(out[:], sum[:Size512_224])
	return out
}

// Sum512_256 returns the SHA-512/256 digest of data.
func Sum512_256(data []byte) [Size512_256]byte {
	d := digest512{variant: variant512_256}
	d.Reset()
	d.Write(data)
	sum := d.checkSum()

	var out [Size512_256]byte
	copy(out[:], sum[:Size512_256])
	return out
}

func (d *digest512) Reset() {
	d.h = iv512[d.variant]
	d.nx = 0
	d.len = 0
}

func (d *digest512) Size() int { return size512[d.variant] }

func (d *digest512) BlockSize() int { return BlockSize512 }

// Write absorbs p, compressing every block that fills up. It never fails.
func (d *digest512) Write(p []byte) (int, error) {
	nn := len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize512 {
			block512(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize512 {
		n := len(p) &^ (BlockSize512 - 1)
		block512(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the digest to b. The running state is left untouched.
func (d *digest512) Sum(b []byte) []byte {
	dc := *d
	sum := dc.checkSum()
	return append(b, sum[:dc.Size()]...)
}

// checkSum pads to 112 mod 128 and appends the bit length as a 128-bit
// big-endian integer. It consumes the state.
func (d *digest512) checkSum() [Size512]byte {
	n := d.len

	var tmp [BlockSize512 + 16]byte
	tmp[0] = 0x80
	var t uint64
	if n%BlockSize512 < 112 {
		t = 112 - n%BlockSize512
	} else {
		t = BlockSize512 + 112 - n%BlockSize512
	}
	binary.BigEndian.PutUint64(tmp[t:], n>>61)
	binary.BigEndian.PutUint64(tmp[t+8:], n<<3)
	d.Write(tmp[:t+16])

	if d.nx != 0 {
		panic("sha2: partial block left after padding")
	}

	var out [Size512]byte
	for i, s := range d.h {
		binary.BigEndian.PutUint64(out[i*8:], s)
	}
	return out
}

// MarshalBinary checkpoints the running state.
func (d *digest512) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize512)
	b = append(b, magic512s[d.variant]...)
	for _, s := range d.h {
		b = binary.BigEndian.AppendUint64(b, s)
	}
	b = append(b, d.x[:d.nx]...)
	b = append(b, make([]byte, BlockSize512-d.nx)...)
	b = binary.BigEndian.AppendUint64(b, d.len)
	return b, nil
}

// UnmarshalBinary restores a state produced by MarshalBinary on the same
// variant.
func (d *digest512) UnmarshalBinary(b []byte) error {
	if len(b) != marshaledSize512 || string(b[:len(magic512)]) != magic512s[d.variant] {
		return ErrInvalidState
	}
	b = b[len(magic512):]
	for i := range d.h {
		d.h[i] = binary.BigEndian.Uint64(b[i*8:])
	}
	b = b[8*8:]
	copy(d.x[:], b[:BlockSize512])
	d.len = binary.BigEndian.Uint64(b[BlockSize512:])
	d.nx = int(d.len % BlockSize512)
	return nil
}
