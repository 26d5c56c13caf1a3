package flate

import "testing"

func TestBitReader_TakeAcrossBytes(t *testing.T) {
	// 0xB2 0x01 little-endian byte order, LSB-first bit order:
	// bits: 0 1 0 0 1 1 0 1  1 0 0 0 0 0 0 0
	in := []byte{0xb2, 0x01}
	pos := 0

	var br bitReader
	if !br.needBits(4, in, &pos) {
		t.Fatalf("needBits(4) failed early")
	}
	if got := br.take(4); got != 0x2 {
		t.Errorf("take(4) = %#x, want 0x2", got)
	}

	if !br.needBits(9, in, &pos) {
		t.Fatalf("needBits(9) failed to pull second byte")
	}
	if pos != 2 {
		t.Errorf("pos = %d, want 2", pos)
	}
	if got := br.take(9); got != 0x1b {
		t.Errorf("take(9) = %#x, want 0x1b", got)
	}
	if br.bits != 3 {
		t.Errorf("bits = %d, want 3", br.bits)
	}
}

func TestBitReader_NeedBitsExhausted(t *testing.T) {
	in := []byte{0xff}
	pos := 0

	var br bitReader
	if br.needBits(9, in, &pos) {
		t.Fatalf("needBits(9) succeeded with only one byte available")
	}
	if br.bits != 8 {
		t.Errorf("bits = %d, want 8 (partial pull preserved)", br.bits)
	}
	if pos != 1 {
		t.Errorf("pos = %d, want 1", pos)
	}

	more := []byte{0xff, 0x01}
	pos = 1
	if !br.needBits(9, more, &pos) {
		t.Fatalf("needBits(9) failed after more input became available")
	}
}

func TestBitReader_AlignToByte(t *testing.T) {
	in := []byte{0xff, 0xaa}
	pos := 0

	var br bitReader
	br.needBits(3, in, &pos)
	br.drop(3)
	if br.bits != 5 {
		t.Fatalf("bits = %d, want 5", br.bits)
	}
	br.alignToByte()
	if br.bits != 0 {
		t.Errorf("bits after alignToByte = %d, want 0", br.bits)
	}
}

func TestBitReader_Clear(t *testing.T) {
	in := []byte{0xff}
	pos := 0

	var br bitReader
	br.needBits(8, in, &pos)
	br.clear()
	if br.bits != 0 || br.hold != 0 {
		t.Errorf("clear did not reset state: bits=%d hold=%d", br.bits, br.hold)
	}
}
