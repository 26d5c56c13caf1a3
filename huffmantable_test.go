package flate

import "testing"

func TestBuildHuffmanTable_TwoSymbolComplete(t *testing.T) {
	lens := []byte{1, 1}
	var table [4]codeTableEntry

	used, root, err := buildHuffmanTable(codesKind, lens, table[:], 7)
	if err != nil {
		t.Fatalf("buildHuffmanTable failed: %v", err)
	}
	if root != 1 {
		t.Errorf("root = %d, want 1 (shrunk to max code length)", root)
	}
	if used != 2 {
		t.Errorf("used = %d, want 2", used)
	}

	want := [2]codeTableEntry{
		{op: 0, bits: 1, val: 0},
		{op: 0, bits: 1, val: 1},
	}
	for i, w := range want {
		if table[i] != w {
			t.Errorf("table[%d] = %+v, want %+v", i, table[i], w)
		}
	}
}

func TestBuildHuffmanTable_OverSubscribed(t *testing.T) {
	lens := []byte{1, 1, 1}
	var table [8]codeTableEntry

	_, _, err := buildHuffmanTable(codesKind, lens, table[:], 7)
	if err != ErrOverSubscribed {
		t.Fatalf("err = %v, want ErrOverSubscribed", err)
	}
}

func TestBuildHuffmanTable_IncompleteRequiresComplete(t *testing.T) {
	lens := []byte{0, 2}
	var table [8]codeTableEntry

	_, _, err := buildHuffmanTable(lensKind, lens, table[:], 7)
	if err != ErrInsufficientLengths {
		t.Fatalf("err = %v, want ErrInsufficientLengths", err)
	}
}

func TestBuildHuffmanTable_SingleCodeAllowedForDistances(t *testing.T) {
	// RFC 1951 section 3.2.7: a distance tree with only one distance code is
	// legal and encoded as a single 1-bit code.
	lens := make([]byte, physicalNumDCodes)
	lens[0] = 1
	var table [64]codeTableEntry

	_, root, err := buildHuffmanTable(distsKind, lens, table[:], 6)
	if err != nil {
		t.Fatalf("buildHuffmanTable failed: %v", err)
	}
	if root != 1 {
		t.Errorf("root = %d, want 1", root)
	}
	// Distance symbol 0 means "back-reference distance 1" (base 1, no
	// extra bits); codeword 1 does not exist and must decode as invalid.
	if table[0].op&opLenDist == 0 || table[0].val != 1 {
		t.Errorf("table[0] = %+v, want distance base 1", table[0])
	}
	if table[1].op&opInvalid == 0 {
		t.Errorf("table[1] = %+v, want invalid (unused codeword)", table[1])
	}
}

func TestBuildHuffmanTable_EmptyDistanceCode(t *testing.T) {
	lens := make([]byte, physicalNumDCodes)
	var table [4]codeTableEntry

	used, root, err := buildHuffmanTable(distsKind, lens, table[:], 6)
	if err != nil {
		t.Fatalf("buildHuffmanTable failed: %v", err)
	}
	if used != 2 || root != 1 {
		t.Errorf("used=%d root=%d, want used=2 root=1", used, root)
	}
	if table[0].op&opInvalid == 0 || table[1].op&opInvalid == 0 {
		t.Errorf("expected both entries invalid for an empty distance alphabet")
	}
}

func TestFixedTables_Initialized(t *testing.T) {
	// The fixed literal/length alphabet (RFC 1951 section 3.2.6) has a
	// maximum code length of 9 bits, and the distance alphabet a uniform
	// 5 bits; since both are requested with a root width equal to their
	// max code length, buildHuffmanTable has no reason to shrink either.
	if fixedLenBits != 9 {
		t.Errorf("fixedLenBits = %d, want 9", fixedLenBits)
	}
	if fixedDistBits != 5 {
		t.Errorf("fixedDistBits = %d, want 5", fixedDistBits)
	}
}
