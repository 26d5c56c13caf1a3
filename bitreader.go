package flate

import (
	"github.com/chronos-tachyon/assert"
)

// bitReader buffers bits drawn LSB-first from an input byte sequence into a
// CPU-word-sized accumulator.  It is embedded directly in Decoder so that
// its state -- the only state that must survive a suspension mid-symbol --
// persists across Inflate calls without any separate allocation.
type bitReader struct {
	hold block
	bits byte
}

// pullByte consumes one byte from in[*pos], shifting it into hold at the
// current bit position and advancing *pos.  It reports false, leaving hold
// and bits unchanged, when in is exhausted.
func (br *bitReader) pullByte(in []byte, pos *int) bool {
	if *pos >= len(in) {
		return false
	}
	limit := byte(bitsPerBlock - bitsPerByte)
	assert.Assertf(br.bits <= limit, "bits %d > limit %d", br.bits, limit)

	ch := in[*pos]
	*pos++

	br.hold |= block(ch) << br.bits
	br.bits += bitsPerByte
	return true
}

// needBits pulls bytes until at least n bits are held, or reports false if
// in runs out first.  On failure, any bytes already pulled remain in hold;
// the next call resumes from there.
func (br *bitReader) needBits(n byte, in []byte, pos *int) bool {
	for br.bits < n {
		if !br.pullByte(in, pos) {
			return false
		}
	}
	return true
}

// peek returns the low n bits of hold without consuming them.  n must be no
// greater than the number of bits currently held.
func (br *bitReader) peek(n byte) block {
	assert.Assertf(n <= br.bits, "n %d > bits %d", n, br.bits)
	return br.hold & makeMask(n)
}

// drop discards the low n bits of hold.
func (br *bitReader) drop(n byte) {
	assert.Assertf(n <= br.bits, "n %d > bits %d", n, br.bits)
	br.hold >>= n
	br.bits -= n
}

// take is peek followed by drop of the same width.
func (br *bitReader) take(n byte) block {
	out := br.peek(n)
	br.drop(n)
	return out
}

// alignToByte discards whatever partial byte remains at the low end of
// hold, leaving bits a multiple of 8.
func (br *bitReader) alignToByte() {
	br.drop(br.bits % bitsPerByte)
}

// clear zeroes the accumulator and its bit count.
func (br *bitReader) clear() {
	br.hold = 0
	br.bits = 0
}
