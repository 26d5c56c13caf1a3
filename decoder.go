package flate

import (
	"github.com/chronos-tachyon/assert"
)

const (
	poolLenSize  = 852
	poolDistSize = 592
)

// Decoder is a resumable raw-DEFLATE (RFC 1951) decompressor.  A single
// Decoder value decodes exactly one logical stream: Inflate may be called
// any number of times with fresh input and output slices, and will suspend
// and resume across calls at any bit boundary.  Two calls on the same
// Decoder must never overlap; distinct Decoders are fully independent.
type Decoder struct {
	mode Mode
	last bool
	sane bool

	br bitReader

	// in-flight length/distance decode.
	length   uint32
	offset   uint32
	extra    byte
	litValue uint16

	// stored-block scratch.
	haveLen   bool
	storedLen uint16

	// dynamic-table construction scratch.
	nlen, ndist, ncode uint32
	have               uint32
	lens               [320]byte

	codeLenTable [128]codeTableEntry
	codeLenBits  byte

	pool      [poolLenSize + poolDistSize]codeTableEntry
	lenTable  []codeTableEntry
	lenBits   byte
	distTable []codeTableEntry
	distBits  byte

	win slidingWindow

	totalIn  uint64
	totalOut uint64

	err      error
	dataType uint16
}

// NewDecoder constructs a Decoder for a raw DEFLATE stream using a sliding
// window of 2**wbits bytes.  wbits must be in [8,15].
func NewDecoder(wbits WindowBits) *Decoder {
	d := &Decoder{}
	d.Reset(wbits)
	return d
}

// Reset reinitializes the Decoder to decode a new stream with the given
// window size, discarding any in-progress state.  DefaultWindowBits selects
// MaxWindowBits.
func (d *Decoder) Reset(wbits WindowBits) {
	assert.Assertf(wbits.IsValid(), "invalid WindowBits %d", uint(wbits))
	if wbits == DefaultWindowBits {
		wbits = MaxWindowBits
	}
	*d = Decoder{
		sane: true,
	}
	d.win.init(byte(wbits))
}

// SetDictionary primes the sliding window with a preset dictionary, as if
// those bytes had just been decompressed.  It must be called before the
// first call to Inflate.
func (d *Decoder) SetDictionary(dict []byte) {
	if err := d.win.ensureAllocated(); err != nil {
		d.mode = modeMem
		return
	}
	d.win.append(dict)
}

// SetLenient toggles whether back-references farther than the window
// currently holds are treated as errors (the default, strict mode) or
// silently zero-filled.
func (d *Decoder) SetLenient(lenient bool) {
	d.sane = !lenient
}

// Mode reports the Decoder's current state-machine mode. Exposed mainly for
// tracing and tests; callers driving Inflate normally never need it.
func (d *Decoder) Mode() Mode { return d.mode }

// Err returns the error attached by Inflate: a CorruptInputError after
// DataErrorCode, a StreamArgumentError after a nil output buffer, or nil if
// neither has happened.
func (d *Decoder) Err() error { return d.err }

// DataType returns a diagnostic bitmask describing the number of bits held
// in the bit accumulator, the last-block flag, and whether the Decoder is
// currently sitting at a block or symbol boundary.
func (d *Decoder) DataType() uint16 { return d.dataType }

// TotalIn returns the number of input bytes consumed across the lifetime of
// this Decoder.
func (d *Decoder) TotalIn() uint64 { return d.totalIn }

// TotalOut returns the number of output bytes produced across the lifetime
// of this Decoder.
func (d *Decoder) TotalOut() uint64 { return d.totalOut }

// Inflate advances decompression, consuming from in and writing to out. It
// returns the number of bytes consumed and produced during this call and a
// Code describing what happened; see the Code constants for their meaning.
//
// Two calls on the same Decoder must not overlap. On DataErrorCode, the
// Decoder's Mode becomes BAD and every subsequent call returns
// DataErrorCode again with the same error available from Err.
func (d *Decoder) Inflate(in []byte, out []byte, flush FlushType) (consumed int, produced int, code Code) {
	if !flush.IsValid() {
		return 0, 0, StreamErrorCode
	}
	if out == nil {
		d.err = StreamArgumentError{Problem: "nil output buffer"}
		return 0, 0, StreamErrorCode
	}

	posIn, posOut := 0, 0

	finish := func(c Code) (int, int, Code) {
		if posOut > 0 {
			d.win.append(out[:posOut])
		}
		d.totalIn += uint64(posIn)
		d.totalOut += uint64(posOut)
		d.dataType = d.computeDataType()
		return posIn, posOut, c
	}

	if d.mode == modeBad {
		return finish(DataErrorCode)
	}
	if d.mode == modeMem {
		return finish(MemoryErrorCode)
	}
	if err := d.win.ensureAllocated(); err != nil {
		d.mode = modeMem
		return finish(MemoryErrorCode)
	}

	for {
		switch d.mode {
		case modeHead:
			d.mode = modeTypeDo

		case modeType:
			if flush == BlockFlush || flush == TreesFlush {
				return finish(Ok)
			}
			d.mode = modeTypeDo

		case modeTypeDo:
			if !d.br.needBits(3, in, &posIn) {
				return finish(d.suspendCode(flush, true, posIn, posOut))
			}
			hdr := d.br.take(3)
			d.last = (hdr & 0x1) != 0
			switch (hdr >> 1) & 0x3 {
			case 0:
				d.br.alignToByte()
				d.mode = modeStored
			case 1:
				d.lenTable, d.lenBits = fixedLenTable[:], fixedLenBits
				d.distTable, d.distBits = fixedDistTable[:], fixedDistBits
				d.mode = modeLenBegin
			case 2:
				d.mode = modeTable
			default:
				return finish(d.dataError("invalid block type", posIn))
			}

		case modeStored:
			if !d.haveLen {
				if !d.br.needBits(16, in, &posIn) {
					return finish(d.suspendCode(flush, true, posIn, posOut))
				}
				d.storedLen = uint16(d.br.take(16))
				d.haveLen = true
			}
			if !d.br.needBits(16, in, &posIn) {
				return finish(d.suspendCode(flush, true, posIn, posOut))
			}
			nlen := uint16(d.br.take(16))
			if nlen != ^d.storedLen {
				return finish(d.dataError("invalid stored block lengths", posIn))
			}
			d.haveLen = false
			d.length = uint32(d.storedLen)
			d.mode = modeCopyBegin

		case modeCopyBegin, modeCopy:
			for d.length > 0 {
				if posIn >= len(in) {
					return finish(d.suspendCode(flush, true, posIn, posOut))
				}
				if posOut >= len(out) {
					return finish(d.suspendCode(flush, false, posIn, posOut))
				}
				out[posOut] = in[posIn]
				posIn++
				posOut++
				d.length--
			}
			d.mode = modeType
			if d.last {
				d.mode = modeCheck
			}

		case modeTable:
			if !d.br.needBits(14, in, &posIn) {
				return finish(d.suspendCode(flush, true, posIn, posOut))
			}
			hdr := d.br.take(14)
			d.nlen = 257 + uint32(hdr&0x1f)
			d.ndist = 1 + uint32((hdr>>5)&0x1f)
			d.ncode = 4 + uint32((hdr>>10)&0x0f)
			if d.nlen > logicalNumLLCodes || d.ndist > logicalNumDCodes {
				return finish(d.dataError("too many length or distance symbols", posIn))
			}
			d.have = 0
			d.mode = modeLenLens

		case modeLenLens:
			for d.have < d.ncode {
				if !d.br.needBits(3, in, &posIn) {
					return finish(d.suspendCode(flush, true, posIn, posOut))
				}
				d.lens[scramble[d.have]] = byte(d.br.take(3))
				d.have++
			}
			for i := d.ncode; i < physicalNumXCodes; i++ {
				d.lens[scramble[i]] = 0
			}

			used, bits, err := buildHuffmanTable(codesKind, d.lens[:physicalNumXCodes], d.codeLenTable[:], 7)
			if err != nil {
				return finish(d.dataError("invalid code lengths set", posIn))
			}
			_ = used
			d.codeLenBits = bits
			d.have = 0
			d.extra = 0
			d.mode = modeCodeLens

		case modeCodeLens:
			total := d.nlen + d.ndist
			for d.have < total {
				// A non-zero d.extra is a repeat symbol (16-18) already
				// decoded by a call that suspended before its extra bits.
				sym := uint16(d.extra)
				if sym == 0 {
					entry, ok := d.decodeSymbol(d.codeLenTable[:], d.codeLenBits, in, &posIn)
					if !ok {
						return finish(d.suspendCode(flush, true, posIn, posOut))
					}
					if entry.op&opInvalid != 0 {
						return finish(d.dataError("invalid code lengths set", posIn))
					}
					sym = entry.val
				}
				switch {
				case sym < 16:
					d.lens[d.have] = byte(sym)
					d.have++

				case sym == 16:
					if d.have == 0 {
						return finish(d.dataError("invalid bit length repeat", posIn))
					}
					if !d.br.needBits(2, in, &posIn) {
						d.extra = 16
						return finish(d.suspendCode(flush, true, posIn, posOut))
					}
					d.extra = 0
					count := 3 + uint32(d.br.take(2))
					if d.have+count > total {
						return finish(d.dataError("invalid bit length repeat", posIn))
					}
					last := d.lens[d.have-1]
					for ; count > 0; count-- {
						d.lens[d.have] = last
						d.have++
					}

				case sym == 17:
					if !d.br.needBits(3, in, &posIn) {
						d.extra = 17
						return finish(d.suspendCode(flush, true, posIn, posOut))
					}
					d.extra = 0
					count := 3 + uint32(d.br.take(3))
					if d.have+count > total {
						return finish(d.dataError("invalid bit length repeat", posIn))
					}
					for ; count > 0; count-- {
						d.lens[d.have] = 0
						d.have++
					}

				case sym == 18:
					if !d.br.needBits(7, in, &posIn) {
						d.extra = 18
						return finish(d.suspendCode(flush, true, posIn, posOut))
					}
					d.extra = 0
					count := 11 + uint32(d.br.take(7))
					if d.have+count > total {
						return finish(d.dataError("invalid bit length repeat", posIn))
					}
					for ; count > 0; count-- {
						d.lens[d.have] = 0
						d.have++
					}

				default:
					return finish(d.dataError("invalid code lengths set", posIn))
				}
			}

			if d.lens[256] == 0 {
				return finish(d.dataError("invalid code -- missing end-of-block", posIn))
			}

			llLens := make([]byte, physicalNumLLCodes)
			copy(llLens, d.lens[:d.nlen])
			distLens := make([]byte, physicalNumDCodes)
			copy(distLens, d.lens[d.nlen:d.nlen+d.ndist])

			usedLen, lenBits, err := buildHuffmanTable(lensKind, llLens, d.pool[:poolLenSize], 9)
			if err != nil {
				return finish(d.dataError("invalid literal/lengths set", posIn))
			}
			usedDist, distBits, err := buildHuffmanTable(distsKind, distLens, d.pool[poolLenSize:poolLenSize+poolDistSize], 6)
			if err != nil {
				return finish(d.dataError("invalid distances set", posIn))
			}

			d.lenTable = d.pool[:usedLen]
			d.lenBits = lenBits
			d.distTable = d.pool[poolLenSize : poolLenSize+usedDist]
			d.distBits = distBits
			d.mode = modeLenBegin

			if flush == TreesFlush {
				return finish(Ok)
			}

		case modeLenBegin, modeLen:
			entry, ok := d.decodeSymbol(d.lenTable, d.lenBits, in, &posIn)
			if !ok {
				return finish(d.suspendCode(flush, true, posIn, posOut))
			}
			switch {
			case entry.op&opInvalid != 0:
				if entry.op&opEndOfBlock != 0 {
					d.mode = modeType
					if d.last {
						d.mode = modeCheck
					}
				} else {
					return finish(d.dataError("invalid literal/length code", posIn))
				}
			case entry.op == 0:
				d.litValue = entry.val
				d.mode = modeLit
			default:
				d.length = uint32(entry.val)
				d.extra = entry.op & 0x0f
				d.mode = modeLenExt
			}

		case modeLenExt:
			if d.extra != 0 {
				if !d.br.needBits(d.extra, in, &posIn) {
					return finish(d.suspendCode(flush, true, posIn, posOut))
				}
				d.length += uint32(d.br.take(d.extra))
			}
			d.mode = modeDist

		case modeDist:
			entry, ok := d.decodeSymbol(d.distTable, d.distBits, in, &posIn)
			if !ok {
				return finish(d.suspendCode(flush, true, posIn, posOut))
			}
			if entry.op&opInvalid != 0 {
				return finish(d.dataError("invalid distance code", posIn))
			}
			d.offset = uint32(entry.val)
			d.extra = entry.op & 0x0f
			d.mode = modeDistExt

		case modeDistExt:
			if d.extra != 0 {
				if !d.br.needBits(d.extra, in, &posIn) {
					return finish(d.suspendCode(flush, true, posIn, posOut))
				}
				d.offset += uint32(d.br.take(d.extra))
			}
			if d.offset > d.win.available(uint32(posOut)) {
				if d.sane {
					return finish(d.dataError("invalid distance too far back", posIn))
				}
			}
			d.mode = modeMatch

		case modeMatch:
			for d.length > 0 {
				if posOut >= len(out) {
					return finish(d.suspendCode(flush, false, posIn, posOut))
				}
				var ch byte
				if d.offset > d.win.available(uint32(posOut)) {
					ch = 0
				} else {
					ch = d.win.copyByte(d.offset, out, uint32(posOut))
				}
				out[posOut] = ch
				posOut++
				d.length--
			}
			d.mode = modeLenBegin

		case modeLit:
			if posOut >= len(out) {
				return finish(d.suspendCode(flush, false, posIn, posOut))
			}
			out[posOut] = byte(d.litValue)
			posOut++
			d.mode = modeLenBegin

		case modeCheck:
			d.mode = modeDone

		case modeDone:
			return finish(EndOfStreamCode)

		case modeBad:
			return finish(DataErrorCode)

		case modeMem:
			return finish(MemoryErrorCode)

		default:
			assert.Raisef("Mode %#v not implemented", d.mode)
		}
	}
}

// decodeSymbol walks a root table and, for codes longer than rootBits, one
// chained sub-table, to decode a single Huffman symbol. It looks the symbol
// up with whatever bits are held (unheld high bits read as zero) and pulls
// one more byte only while the matched code is longer than what is held, so
// it never asks for more bits than the code actually being decoded. Nothing
// is dropped until the whole code is buffered -- so a failed pull leaves
// hold untouched and the next call safely restarts the same lookup from
// scratch, exactly the property a resumable decode needs.
func (d *Decoder) decodeSymbol(table []codeTableEntry, rootBits byte, in []byte, posIn *int) (codeTableEntry, bool) {
	for {
		here := table[d.br.hold&makeMask(rootBits)]
		need := here.bits
		if here.op != 0 && here.op&(opInvalid|opLenDist) == 0 {
			link := here
			here = table[link.val+uint16((d.br.hold&makeMask(link.bits+link.op))>>link.bits)]
			need = link.bits + here.bits
		}
		if need <= d.br.bits {
			d.br.drop(need)
			return here, true
		}
		if !d.br.pullByte(in, posIn) {
			return codeTableEntry{}, false
		}
	}
}

// suspendCode reports why Inflate is suspending: BufferErrorCode when no
// progress was possible this call and either Finish was requested or both
// buffers were empty, NeedsInputCode/NeedsOutputCode otherwise depending on
// which side stalled the decode.
func (d *Decoder) suspendCode(flush FlushType, wantInput bool, posIn int, posOut int) Code {
	if flush == Finish || (posIn == 0 && posOut == 0) {
		return BufferErrorCode
	}
	if wantInput {
		return NeedsInputCode
	}
	return NeedsOutputCode
}

func (d *Decoder) dataError(problem string, offsetThisCall int) Code {
	d.mode = modeBad
	d.err = CorruptInputError{
		OffsetTotal:  d.totalIn + uint64(offsetThisCall),
		OffsetStream: d.totalIn + uint64(offsetThisCall),
		Problem:      problem,
	}
	return DataErrorCode
}

// computeDataType matches zlib's own strm->data_type convention bit for
// bit: the low bits are the number of bits currently held in the bit
// accumulator, 0x40 marks the last block, 0x80 marks a mode==TYPE boundary,
// and 0x100 marks a mode==LEN_/COPY_ boundary.
func (d *Decoder) computeDataType() uint16 {
	dt := uint16(d.br.bits)
	if d.last {
		dt |= 0x40
	}
	if d.mode == modeType {
		dt |= 0x80
	}
	if d.mode == modeLenBegin || d.mode == modeCopyBegin {
		dt |= 0x100
	}
	return dt
}
