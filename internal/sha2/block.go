package sha2

// block256 and block512 compress every full block of p into h. Accelerated
// implementations replace these bodies and must stay bit-exact with the
// generic ones.
func block256(h *[8]uint32, p []byte) { blockGeneric256(h, p) }

func block512(h *[8]uint64, p []byte) { blockGeneric512(h, p) }
