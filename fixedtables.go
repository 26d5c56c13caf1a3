package flate

// Fixed Huffman tables (RFC 1951 section 3.2.6) are static for every
// stream, so they are built once at package initialization using the same
// buildHuffmanTable used for dynamic blocks, rather than being decoded from
// a per-block header.
var (
	fixedLenTable  [512]codeTableEntry
	fixedLenBits   byte
	fixedDistTable [32]codeTableEntry
	fixedDistBits  byte
)

func init() {
	lens := make([]byte, physicalNumLLCodes)
	for i := 0; i < 144; i++ {
		lens[i] = 8
	}
	for i := 144; i < 256; i++ {
		lens[i] = 9
	}
	for i := 256; i < 280; i++ {
		lens[i] = 7
	}
	for i := 280; i < 288; i++ {
		lens[i] = 8
	}

	used, bits, err := buildHuffmanTable(lensKind, lens, fixedLenTable[:], 9)
	if err != nil {
		panic("flate: failed to build fixed literal/length table: " + err.Error())
	}
	_ = used
	fixedLenBits = bits

	dlens := make([]byte, physicalNumDCodes)
	for i := range dlens {
		dlens[i] = 5
	}

	used, bits, err = buildHuffmanTable(distsKind, dlens, fixedDistTable[:], 5)
	if err != nil {
		panic("flate: failed to build fixed distance table: " + err.Error())
	}
	_ = used
	fixedDistBits = bits
}
