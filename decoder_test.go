package flate

import (
	"bytes"
	"testing"
)

func TestDecoder_StoredBlock(t *testing.T) {
	// BFINAL=1, BTYPE=00 (stored); LEN=5, NLEN=~5; "hello".
	in := mustDecodeHex("010500faff68656c6c6f")
	out := make([]byte, 32)

	d := NewDecoder(DefaultWindowBits)
	consumed, produced, code := d.Inflate(in, out, NoFlush)

	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode", code)
	}
	if consumed != len(in) {
		t.Errorf("consumed = %d, want %d", consumed, len(in))
	}
	if !bytes.Equal(out[:produced], []byte("hello")) {
		t.Errorf("output = %q, want %q", out[:produced], "hello")
	}
}

func TestDecoder_FixedHuffmanBlock(t *testing.T) {
	// BFINAL=1, BTYPE=01 (fixed Huffman): literals 'H','e','l','l','o'
	// followed by the end-of-block symbol.
	in := mustDecodeHex("f348cdc9c90700")
	out := make([]byte, 32)

	d := NewDecoder(DefaultWindowBits)
	consumed, produced, code := d.Inflate(in, out, NoFlush)

	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode", code)
	}
	if consumed != len(in) {
		t.Errorf("consumed = %d, want %d", consumed, len(in))
	}
	if !bytes.Equal(out[:produced], []byte("Hello")) {
		t.Errorf("output = %q, want %q", out[:produced], "Hello")
	}
}

func TestDecoder_SplitAcrossCalls(t *testing.T) {
	// Same stored block as TestDecoder_StoredBlock, but fed one byte at a
	// time to exercise suspend/resume across Inflate calls.
	in := mustDecodeHex("010500faff68656c6c6f")
	out := make([]byte, 32)

	d := NewDecoder(DefaultWindowBits)
	var got []byte
	var code Code
	for i := 0; i < len(in); i++ {
		var consumed, produced int
		consumed, produced, code = d.Inflate(in[i:i+1], out, NoFlush)
		if consumed != 1 {
			t.Fatalf("byte %d: consumed = %d, want 1", i, consumed)
		}
		got = append(got, out[:produced]...)
		if code == EndOfStreamCode {
			break
		}
		if code != NeedsInputCode && code != Ok {
			t.Fatalf("byte %d: unexpected code %v", i, code)
		}
	}
	if code != EndOfStreamCode {
		t.Fatalf("final code = %v, want EndOfStreamCode", code)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("output = %q, want %q", got, "hello")
	}
}

func TestDecoder_SplitAcrossOutputCalls(t *testing.T) {
	// Same fixed-Huffman block as TestDecoder_FixedHuffmanBlock, but the
	// caller only ever offers a 1-byte output buffer, exercising
	// NeedsOutputCode suspension inside modeLit.
	in := mustDecodeHex("f348cdc9c90700")

	d := NewDecoder(DefaultWindowBits)
	var got []byte
	posIn := 0
	for {
		out := make([]byte, 1)
		consumed, produced, code := d.Inflate(in[posIn:], out, NoFlush)
		posIn += consumed
		got = append(got, out[:produced]...)
		if code == EndOfStreamCode {
			break
		}
		if code != NeedsOutputCode && code != NeedsInputCode && code != Ok {
			t.Fatalf("unexpected code %v", code)
		}
		if posIn > len(in)+8 {
			t.Fatalf("decoder made no forward progress")
		}
	}
	if !bytes.Equal(got, []byte("Hello")) {
		t.Errorf("output = %q, want %q", got, "Hello")
	}
}

func TestDecoder_InvalidBlockType(t *testing.T) {
	// BFINAL=1, BTYPE=11 (reserved/invalid): header byte 0x07 has its low
	// 3 bits set to 111.
	in := []byte{0x07}
	out := make([]byte, 8)

	d := NewDecoder(DefaultWindowBits)
	_, _, code := d.Inflate(in, out, NoFlush)
	if code != DataErrorCode {
		t.Fatalf("code = %v, want DataErrorCode", code)
	}
	cie, ok := d.Err().(CorruptInputError)
	if !ok {
		t.Fatalf("Err() = %v (%T), want CorruptInputError", d.Err(), d.Err())
	}
	if cie.Problem != "invalid block type" {
		t.Errorf("Problem = %q, want %q", cie.Problem, "invalid block type")
	}
	if d.Mode() != modeBad {
		t.Errorf("Mode() = %v, want modeBad", d.Mode())
	}

	// Once in modeBad, every subsequent call keeps returning the same error.
	_, _, code2 := d.Inflate(in, out, NoFlush)
	if code2 != DataErrorCode {
		t.Errorf("second call code = %v, want DataErrorCode", code2)
	}
}

func TestDecoder_InvalidStoredLength(t *testing.T) {
	// BFINAL=1, BTYPE=00 (stored); LEN=5, NLEN deliberately wrong (not ~LEN).
	in := mustDecodeHex("010500000068656c6c6f")
	out := make([]byte, 8)

	d := NewDecoder(DefaultWindowBits)
	_, _, code := d.Inflate(in, out, NoFlush)
	if code != DataErrorCode {
		t.Fatalf("code = %v, want DataErrorCode", code)
	}
	cie, ok := d.Err().(CorruptInputError)
	if !ok {
		t.Fatalf("Err() = %v (%T), want CorruptInputError", d.Err(), d.Err())
	}
	if cie.Problem != "invalid stored block lengths" {
		t.Errorf("Problem = %q, want %q", cie.Problem, "invalid stored block lengths")
	}
}

func TestDecoder_FinishTreatsShortInputAsBufferError(t *testing.T) {
	in := []byte{0x01} // only the block header byte; LEN/NLEN never arrive
	out := make([]byte, 8)

	d := NewDecoder(DefaultWindowBits)
	_, _, code := d.Inflate(in, out, Finish)
	if code != BufferErrorCode {
		t.Fatalf("code = %v, want BufferErrorCode", code)
	}
}

func TestDecoder_ZeroProgressUnderNoFlushIsBufferError(t *testing.T) {
	// Neither Finish nor a genuinely empty stream: a call with both an
	// empty input and an empty output buffer makes no progress at all,
	// which must surface as BufferErrorCode even under NoFlush.
	d := NewDecoder(DefaultWindowBits)
	consumed, produced, code := d.Inflate(nil, []byte{}, NoFlush)
	if code != BufferErrorCode {
		t.Fatalf("code = %v, want BufferErrorCode", code)
	}
	if consumed != 0 || produced != 0 {
		t.Errorf("consumed = %d, produced = %d, want 0, 0", consumed, produced)
	}
}

func TestDecoder_DistanceTooFarBack(t *testing.T) {
	// A fixed-Huffman block whose very first symbol pair is length=3,
	// distance=1 (length code 257, distance code 0), decoded against a
	// fresh Decoder with no window history and nothing written yet this
	// call. distance(1) > available(0) must be rejected under the default
	// strict (sane) mode.
	in := mustDecodeHex("0302")
	out := make([]byte, 8)

	d := NewDecoder(DefaultWindowBits)
	_, _, code := d.Inflate(in, out, NoFlush)
	if code != DataErrorCode {
		t.Fatalf("code = %v, want DataErrorCode", code)
	}
	cie, ok := d.Err().(CorruptInputError)
	if !ok {
		t.Fatalf("Err() = %v (%T), want CorruptInputError", d.Err(), d.Err())
	}
	if cie.Problem != "invalid distance too far back" {
		t.Errorf("Problem = %q, want %q", cie.Problem, "invalid distance too far back")
	}
}

func TestDecoder_SetLenientZeroFillsTooFarDistance(t *testing.T) {
	// Same length/distance pair as TestDecoder_DistanceTooFarBack, but with
	// an end-of-block symbol appended and lenient mode enabled: the
	// out-of-range match is silently zero-filled instead of erroring.
	in := mustDecodeHex("030200")
	out := make([]byte, 8)

	d := NewDecoder(DefaultWindowBits)
	d.SetLenient(true)
	_, produced, code := d.Inflate(in, out, NoFlush)
	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode", code)
	}
	want := []byte{0, 0, 0}
	if !bytes.Equal(out[:produced], want) {
		t.Errorf("output = %v, want %v", out[:produced], want)
	}
}

func TestDecoder_SetDictionary(t *testing.T) {
	// Priming the window with a dictionary lets a back-reference that
	// reaches past this call's output resolve out of window history: after
	// the literal 'X', distance=8 points at the dictionary's second byte.
	d := NewDecoder(DefaultWindowBits)
	d.SetDictionary([]byte("abcdefgh"))

	// Fixed-Huffman block: literal 'X', then length=3/distance=8, then EOB.
	in := mustDecodeHex("8b00d200")
	out := make([]byte, 16)

	consumed, produced, code := d.Inflate(in, out, NoFlush)
	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode", code)
	}
	if consumed != len(in) {
		t.Errorf("consumed = %d, want %d", consumed, len(in))
	}
	want := []byte("Xbcd")
	if !bytes.Equal(out[:produced], want) {
		t.Errorf("output = %q, want %q", out[:produced], want)
	}
}

func TestDecoder_DistanceResolvedFromLiveOutputSameCall(t *testing.T) {
	// Regression test: a distance that exceeds the window's capacity must
	// still succeed when it is fully satisfiable from bytes this same
	// Inflate call already wrote to out, since that never needs window
	// history at all. WindowBits(8) gives a window of only 256 bytes; a
	// single call first emits 300 literal bytes via a stored block, then a
	// fixed-Huffman length=3/distance=300 pair pointing at the first three
	// of those bytes. distance(300) > window capacity(256), but
	// 300 <= whave(0)+bytes_written_this_call(300), so this must not be
	// treated as too far back.
	literal := make([]byte, 300)
	for i := range literal {
		literal[i] = byte('a' + i%26)
	}

	var in []byte
	in = append(in, 0x00) // stored block header, BFINAL=0 BTYPE=00, byte-aligned
	ln := uint16(len(literal))
	in = append(in, byte(ln), byte(ln>>8))
	nlen := ^ln
	in = append(in, byte(nlen), byte(nlen>>8))
	in = append(in, literal...)
	// Fixed-Huffman block: length=3 (code 257), distance=300 (code 16,
	// extra 43), EOB. BFINAL=1, BTYPE=01.
	in = append(in, 0x03, 0x86, 0x15, 0x00)

	out := make([]byte, 320)
	d := NewDecoder(WindowBits(8))
	consumed, produced, code := d.Inflate(in, out, NoFlush)

	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode", code)
	}
	if consumed != len(in) {
		t.Errorf("consumed = %d, want %d", consumed, len(in))
	}
	want := append(append([]byte{}, literal...), literal[:3]...)
	if produced != len(want) {
		t.Fatalf("produced = %d, want %d", produced, len(want))
	}
	if !bytes.Equal(out[:produced], want) {
		t.Errorf("output mismatch")
	}
}

func TestDecoder_FixedBlockWithBackReferences(t *testing.T) {
	// A non-final fixed-Huffman block whose decompressed text repeats
	// "abcd efgh" several times, so decoding it exercises real LZ77
	// back-references through modeMatch. It is followed by a final empty
	// stored block, so the Decoder reaches end-of-stream.
	in := mustDecodeHex("52484c4a4e51484d4bcf406221b8083140000000ffff")
	out := make([]byte, 64)

	d := NewDecoder(DefaultWindowBits)
	consumed, produced, code := d.Inflate(in, out, NoFlush)

	if code != EndOfStreamCode {
		t.Fatalf("code = %v, want EndOfStreamCode (stream ends in a final empty stored block)", code)
	}
	if consumed != len(in) {
		t.Errorf("consumed = %d, want %d", consumed, len(in))
	}
	want := " abcd efgh abcd efgh efgh abcd abcd efgh "
	if !bytes.Equal(out[:produced], []byte(want)) {
		t.Errorf("output = %q, want %q", out[:produced], want)
	}
}
