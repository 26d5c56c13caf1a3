package flate

import (
	"encoding/json"
	"errors"
)

const (
	logicalNumLLCodes  = 286
	logicalNumDCodes   = 30
	physicalNumLLCodes = 288
	physicalNumDCodes  = 32
	physicalNumXCodes  = 19

	maxCodeBits = 15
)

// scramble is the permutation in which code-length-code lengths are
// transmitted (RFC 1951 section 3.2.7).
var scramble = [physicalNumXCodes]byte{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// SizeList represents a list of symbol sizes in a Canonical Huffman Code,
// suitable for attaching to a TreesEvent for tracing.
type SizeList []byte

// MarshalJSON returns the JSON representation of this SizeList, as a JSON
// Array of JSON Numbers.
func (sizelist SizeList) MarshalJSON() ([]byte, error) {
	var arr []uint
	if sizelist != nil {
		arr = make([]uint, len(sizelist))
		for index, size := range sizelist {
			arr[index] = uint(size)
		}
	}
	return json.Marshal(arr)
}

// huffmanKind selects which base/extra-bits tables a table build should
// consult for symbols past the literal range.
type huffmanKind byte

const (
	codesKind huffmanKind = iota
	lensKind
	distsKind
)

// codeTableEntry is one slot of a decoding table, addressed as
// table[peek(rootBits)] at the root and by table[link.val+extraIndex] within
// a chained sub-table.
//
// op encodes the entry's kind:
//   op == 0                      -- literal; val is the output byte
//   op&opInvalid != 0            -- invalid code (op==opInvalid|opEndOfBlock
//                                   marks end-of-block; op==opInvalid alone
//                                   marks an unreachable hole in an
//                                   incomplete code)
//   op&opLenDist != 0            -- length/distance symbol; low 4 bits of op
//                                   are the extra-bit count, val is the base
//   otherwise (op in 1..15)      -- sub-table link; op is the sub-table's
//                                   index-bit width, val is its offset into
//                                   the pool
type codeTableEntry struct {
	op   byte
	bits byte
	val  uint16
}

const (
	opLenDist    = 0x10
	opEndOfBlock = 0x20
	opInvalid    = 0x40
)

// ErrOverSubscribed is returned when a code length vector describes more
// codes than the given lengths can uniquely represent.
var ErrOverSubscribed = errors.New("flate: over-subscribed huffman code")

// ErrInsufficientLengths is returned when a code length vector leaves
// unused code space in a table that must be a complete code.
var ErrInsufficientLengths = errors.New("flate: incomplete huffman code")

// ErrPoolExhausted is returned when a table build would need more entries
// than the pool has remaining.
var ErrPoolExhausted = errors.New("flate: huffman table pool exhausted")

var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var distanceBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distanceExtra = [30]byte{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// buildHuffmanTable fills table[0:] with a canonical Huffman decoding table
// for the given code lengths, starting with a root table of rootBits index
// bits (shrunk to the longest code length if that is shorter, and grown to
// the shortest code length if that is longer).  It
// returns the number of entries used and the actual root width.
//
// This is the classic incremental table-filling algorithm used by zlib's
// inflate_table: codes are walked in increasing length order, symbols
// sharing low bits are replicated across the root (or a chained sub-table),
// and a new sub-table is opened whenever a code's length exceeds the
// current table's index width.
func buildHuffmanTable(kind huffmanKind, lens []byte, table []codeTableEntry, rootBits byte) (used int, actualRoot byte, err error) {
	var count [maxCodeBits + 1]int
	for _, l := range lens {
		count[l]++
	}

	var max byte
	for max = maxCodeBits; max >= 1; max-- {
		if count[max] != 0 {
			break
		}
	}
	if rootBits > max {
		rootBits = max
	}
	if max == 0 {
		// No symbols at all: emit a two-entry table that always reports
		// an invalid code, matching the "legal iff no back-references"
		// carve-out for an empty distance alphabet.
		if len(table) < 2 {
			return 0, 0, ErrPoolExhausted
		}
		table[0] = codeTableEntry{op: opInvalid, bits: 1, val: 0}
		table[1] = codeTableEntry{op: opInvalid, bits: 1, val: 0}
		return 2, 1, nil
	}

	var min byte
	for min = 1; min < max; min++ {
		if count[min] != 0 {
			break
		}
	}
	if rootBits < min {
		rootBits = min
	}

	left := 1
	for length := byte(1); length <= maxCodeBits; length++ {
		left <<= 1
		left -= count[length]
		if left < 0 {
			return 0, 0, ErrOverSubscribed
		}
	}
	if left > 0 && (kind == codesKind || max != 1) {
		return 0, 0, ErrInsufficientLengths
	}

	var offs [maxCodeBits + 2]int
	for length := byte(1); length < maxCodeBits; length++ {
		offs[length+1] = offs[length] + count[length]
	}

	work := make([]uint16, len(lens))
	for sym, l := range lens {
		if l != 0 {
			work[offs[l]] = uint16(sym)
			offs[l]++
		}
	}

	var match int
	switch kind {
	case lensKind:
		match = 257
	case distsKind:
		match = 0
	default:
		match = 20
	}

	huff := 0
	sym := 0
	length := min
	next := 0
	curr := rootBits
	drop := byte(0)
	low := -1
	used = 1 << rootBits
	mask := used - 1

	limit := enoughFor(kind)
	if used > limit {
		return 0, 0, ErrPoolExhausted
	}
	if used > len(table) {
		return 0, 0, ErrPoolExhausted
	}

	for {
		var here codeTableEntry
		here.bits = length - drop

		symVal := int(work[sym])
		switch {
		case symVal+1 < match:
			here.op = 0
			here.val = uint16(symVal)
		case symVal >= match:
			idx := symVal - match
			switch {
			case kind == lensKind && idx < len(lengthBase):
				here.op = opLenDist | lengthExtra[idx]
				here.val = lengthBase[idx]
			case kind == distsKind && idx < len(distanceBase):
				here.op = opLenDist | distanceExtra[idx]
				here.val = distanceBase[idx]
			default:
				// Reserved/unused code point (e.g. length symbol 286-287,
				// distance symbol 30-31): unreachable in a valid stream,
				// but must not index the base/extra tables out of bounds.
				here.op = opInvalid
				here.val = 0
			}
		default:
			here.op = opEndOfBlock | opInvalid
			here.val = 0
		}

		incr := 1 << (length - drop)
		fill := 1 << curr
		minFill := fill
		for {
			fill -= incr
			idx := next + (huff >> drop) + fill
			if idx >= len(table) {
				return 0, 0, ErrPoolExhausted
			}
			table[idx] = here
			if fill == 0 {
				break
			}
		}

		incr = 1 << (length - 1)
		for (huff & incr) != 0 {
			incr >>= 1
		}
		if incr != 0 {
			huff &= incr - 1
			huff += incr
		} else {
			huff = 0
		}

		sym++
		count[length]--
		if count[length] == 0 {
			if length == max {
				break
			}
			length = lens[work[sym]]
		}

		if length > rootBits && (huff&mask) != low {
			if drop == 0 {
				drop = rootBits
			}
			next += minFill

			curr = length - drop
			leftHere := 1 << curr
			for curr+drop < max {
				leftHere -= count[curr+drop]
				if leftHere <= 0 {
					break
				}
				curr++
				leftHere <<= 1
			}

			used += 1 << curr
			if used > limit || used > len(table) {
				return 0, 0, ErrPoolExhausted
			}

			low = huff & mask
			table[low] = codeTableEntry{op: curr, bits: rootBits, val: uint16(next)}
		}
	}

	if huff != 0 {
		table[huff>>drop] = codeTableEntry{op: opInvalid, bits: length - drop, val: 0}
	}

	return used, rootBits, nil
}

func enoughFor(kind huffmanKind) int {
	switch kind {
	case lensKind:
		return 852
	case distsKind:
		return 592
	default:
		return 128
	}
}
