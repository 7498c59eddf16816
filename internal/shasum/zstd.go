package shasum

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewZstdDecoder creates a zstd decoder reading from r.
func NewZstdDecoder(r io.Reader) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec, nil
}

// openContent wraps r in a zstd decoder when decompress is set. The returned
// close function releases the decoder and never fails.
func openContent(r io.Reader, decompress bool) (io.Reader, func(), error) {
	if !decompress {
		return r, func() {}, nil
	}
	dec, err := NewZstdDecoder(r)
	if err != nil {
		return nil, nil, err
	}
	return dec, dec.Close, nil
}
