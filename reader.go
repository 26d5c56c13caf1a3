package flate

import (
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"sync"
	"time"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"

	"github.com/inflowlabs/flate/internal/adler32"
	"github.com/inflowlabs/flate/internal/crc32"
)

// Reader wraps an io.Reader and decompresses the data which flows through it.
type Reader struct {
	wg sync.WaitGroup
	mu sync.Mutex

	format  Format
	mlevel  MemoryLevel
	wbits   WindowBits
	dict    []byte
	tracers []Tracer

	r                  io.Reader
	pr                 *io.PipeReader
	pw                 *io.PipeWriter
	err                error
	inputBytesCRC32    hash.Hash32
	outputBytesAdler32 hash.Hash32
	outputBytesCRC32   hash.Hash32
	input              buffer.Buffer
	output             buffer.Buffer
	inputBytesTotal    uint64
	inputBytesStream   uint64
	outputBytesTotal   uint64
	outputBytesStream  uint64
	numStreams         uint
	didStartReadThread bool
	forceStop          bool
	closed             bool

	header       Header
	actualFormat Format

	decoder *Decoder
	scratch []byte
}

// NewReader constructs and returns a new Reader with the given io.Reader and
// options.
func NewReader(r io.Reader, opts ...Option) *Reader {
	assert.NotNil(&r)

	var o options
	o.reset()
	o.apply(opts)
	o.populateReaderDefaults()

	pr, pw := io.Pipe()

	fr := &Reader{
		format:  o.format,
		mlevel:  o.mlevel,
		wbits:   o.wbits,
		dict:    o.dict,
		tracers: o.tracers,

		r:  r,
		pr: pr,
		pw: pw,

		inputBytesCRC32:    dummyHash32{},
		outputBytesAdler32: dummyHash32{},
		outputBytesCRC32:   dummyHash32{},
	}

	fr.input.Init(fr.inputNumBits())
	fr.output.Init(fr.outputNumBits())
	fr.scratch = make([]byte, 1<<fr.outputNumBits())

	return fr
}

func (fr *Reader) inputNumBits() uint {
	return uint(fr.mlevel + 6)
}

func (fr *Reader) outputNumBits() uint {
	return uint(fr.mlevel + 6)
}

// Format returns the Format which this Reader uses.
func (fr *Reader) Format() Format {
	fr.mu.Lock()
	format := fr.format
	fr.mu.Unlock()
	return format
}

// MemoryLevel returns the MemoryLevel which this Reader uses.
func (fr *Reader) MemoryLevel() MemoryLevel {
	fr.mu.Lock()
	mlevel := fr.mlevel
	fr.mu.Unlock()
	return mlevel
}

// WindowBits returns the WindowBits which this Reader uses.
func (fr *Reader) WindowBits() WindowBits {
	fr.mu.Lock()
	wbits := fr.wbits
	fr.mu.Unlock()
	return wbits
}

// Dict returns the pre-shared LZ77 dictionary which this Reader uses, or nil
// if no such dictionary is in use.
func (fr *Reader) Dict() []byte {
	var dict []byte
	fr.mu.Lock()
	if len(fr.dict) != 0 {
		dict = make([]byte, len(fr.dict))
		copy(dict, fr.dict)
	}
	fr.mu.Unlock()
	return dict
}

// Tracers returns the Tracers which this Reader uses.
func (fr *Reader) Tracers() []Tracer {
	var tracers []Tracer
	fr.mu.Lock()
	if len(fr.tracers) != 0 {
		tracers = make([]Tracer, len(fr.tracers))
		copy(tracers, fr.tracers)
	}
	fr.mu.Unlock()
	return tracers
}

// UnderlyingReader returns the io.Reader which this Reader uses.
func (fr *Reader) UnderlyingReader() io.Reader {
	return fr.r
}

// Reset re-initializes this Reader with the given io.Reader and options.  Any
// options given here are merged with all previous options.
func (fr *Reader) Reset(r io.Reader, opts ...Option) {
	assert.NotNil(&r)
	for _, opt := range opts {
		assert.NotNil(&opt)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	fr.stopReadThreadLocked()

	fr.r = r
	fr.pr, fr.pw = io.Pipe()
	fr.err = nil
	fr.inputBytesCRC32 = dummyHash32{}
	fr.outputBytesAdler32 = dummyHash32{}
	fr.outputBytesCRC32 = dummyHash32{}
	fr.decoder = nil
	fr.didStartReadThread = false
	fr.forceStop = false
	fr.closed = false

	fr.input.Clear()
	fr.output.Clear()

	if len(opts) == 0 {
		return
	}

	var o options
	o.reset()
	o.format = fr.format
	o.mlevel = fr.mlevel
	o.wbits = fr.wbits
	o.dict = fr.dict
	o.tracers = fr.tracers
	o.apply(opts)
	o.populateReaderDefaults()

	fr.format = o.format
	fr.mlevel = o.mlevel
	fr.wbits = o.wbits
	fr.dict = o.dict
	fr.tracers = o.tracers

	if numBits := fr.inputNumBits(); fr.input.NumBits() != numBits {
		fr.input.Init(numBits)
	}
	if numBits := fr.outputNumBits(); fr.output.NumBits() != numBits {
		fr.output.Init(numBits)
		fr.scratch = make([]byte, 1<<numBits)
	}
}

// Read reads from the compressed stream into the provided slice of bytes.
// Conforms to the io.Reader interface.
func (fr *Reader) Read(p []byte) (int, error) {
	fr.startReadThread()
	return fr.pr.Read(p)
}

// Close terminates decompression and closes this Reader.
//
// The underlying io.Reader is *not* closed, even if it supports io.Closer.
//
// The only method which is guaranteed to be safe to call on a Reader after
// Close is Reset, which will return the Reader to a non-closed state.
func (fr *Reader) Close() error {
	fr.mu.Lock()
	fr.stopReadThreadLocked()
	fr.mu.Unlock()
	return nil
}

func (fr *Reader) startReadThread() {
	fr.mu.Lock()
	if !fr.didStartReadThread {
		fr.didStartReadThread = true
		fr.wg.Add(1)
		go fr.readThread()
	}
	fr.mu.Unlock()
}

func (fr *Reader) stopReadThreadLocked() {
	if fr.didStartReadThread {
		fr.forceStop = true
		fr.mu.Unlock()

		_, _ = io.Copy(io.Discard, fr.pr)
		fr.wg.Wait()

		fr.mu.Lock()
	}
}

func (fr *Reader) readThread() {
	fr.mu.Lock()

	fr.numStreams = 0
	for fr.err == nil {
		if !fr.readHeader() {
			break
		}

		fr.outputBytesAdler32 = adler32.New()
		fr.outputBytesCRC32 = crc32.New()

		if !fr.readFlateBlocks() {
			break
		}

		if !fr.readFooter() {
			break
		}
	}

	if fr.err == nil {
		fr.err = io.EOF
	}

	fr.outputBufferMustFlush()
	fr.propagateError(false)
	fr.mu.Unlock()
	fr.wg.Done()
}

func (fr *Reader) readHeader() bool {
	fr.inputBytesStream = 0
	fr.outputBytesStream = 0

	if fr.input.IsEmpty() {
		fr.inputBufferFill()
		if fr.input.IsEmpty() {
			fr.propagateError(false)
			return false
		}
	}

	fr.numStreams++

	fr.decoder = NewDecoder(fr.wbits)
	if fr.dict != nil {
		fr.decoder.SetDictionary(fr.dict)
	}

	fr.actualFormat = DefaultFormat

	fr.sendEvent(Event{
		Type: StreamBeginEvent,
	})

	fr.header = Header{}

	var ok bool
	switch fr.format {
	case DefaultFormat:
		ok = fr.readHeaderAuto()
	case RawFormat:
		ok = fr.readHeaderRaw()
	case ZlibFormat:
		ok = fr.readHeaderZlib()
	case GZIPFormat:
		ok = fr.readHeaderGZIP()
	default:
		assert.Raisef("Format %#v not implemented", fr.format)
	}

	if !ok {
		return false
	}

	h := new(Header)
	*h = fr.header
	fr.sendEvent(Event{
		Type:   StreamHeaderEvent,
		Header: h,
	})

	return true
}

func (fr *Reader) readFooter() bool {
	a32 := fr.outputBytesAdler32.Sum32()
	c32 := fr.outputBytesCRC32.Sum32()

	fr.outputBytesAdler32 = dummyHash32{}
	fr.outputBytesCRC32 = dummyHash32{}

	fr.sendEvent(Event{
		Type: StreamEndEvent,
		Footer: &FooterEvent{
			Adler32: Checksum32(a32),
			CRC32:   Checksum32(c32),
		},
	})

	var ok bool
	switch fr.actualFormat {
	case RawFormat:
		ok = fr.readFooterRaw()
	case ZlibFormat:
		ok = fr.readFooterZlib(a32)
	case GZIPFormat:
		ok = fr.readFooterGZIP(c32)
	default:
		assert.Raisef("Format %#v not implemented", fr.format)
	}

	if !ok {
		return false
	}

	fr.sendEvent(Event{
		Type: StreamCloseEvent,
	})

	return true
}

func (fr *Reader) readHeaderAuto() bool {
	p := fr.input.PrepareBulkRead(2)
	if len(p) < 2 {
		return fr.readHeaderRaw()
	}

	if p[0] == 0x1f && p[1] == 0x8b {
		return fr.readHeaderGZIP()
	}

	u16 := binary.BigEndian.Uint16(p)
	if (p[0]&0x0f) == 0x08 && (u16%31) == 0 {
		return fr.readHeaderZlib()
	}

	return fr.readHeaderRaw()
}

func (fr *Reader) readHeaderRaw() bool {
	fr.actualFormat = RawFormat
	fr.header.CompressLevel = DefaultCompression
	return true
}

func (fr *Reader) readFooterRaw() bool {
	return true
}

func (fr *Reader) readHeaderZlib() bool {
	var header [2]byte
	p, ok := fr.inputBufferRead(header[:])
	if !ok {
		fr.propagateError(true)
		return false
	}

	u16 := binary.BigEndian.Uint16(p)
	if mod := (u16 % 31); mod != 0 {
		fr.corruptf("invalid zlib header checksum -- expected %#04x mod 31 == 0, got %d", u16, mod)
		return false
	}

	method := (p[0] & 0x0f)
	if method != 0x08 {
		fr.corruptf("invalid zlib compression method -- expected 0x8 (DEFLATE), got %#x", method)
		return false
	}

	fr.header.WindowBits = 8 + WindowBits(p[0]>>4)
	if fr.header.WindowBits > fr.wbits {
		fr.corruptf("zlib window size is too big -- data uses 2**%d, but this Reader is limited to 2**%d", fr.header.WindowBits, fr.wbits)
		return false
	}

	fr.header.CompressLevel = [4]CompressLevel{1, 2, DefaultCompression, 9}[p[1]>>6]

	bitFDICT := (p[1] & 0x20) != 0

	if bitFDICT {
		expectedAdler32, ok := fr.inputBufferReadU32(binary.BigEndian)
		if !ok {
			fr.propagateError(true)
			return false
		}

		if fr.dict == nil {
			fr.corruptf("zlib stream was compressed with a pre-set dictionary -- Adler-32 checksum of the dictionary required to decompress this stream is %#08x", expectedAdler32)
			return false
		}

		computedAdler32 := adler32.Checksum(fr.dict)
		if expectedAdler32 != computedAdler32 {
			fr.corruptf("zlib stream was compressed with a different pre-set dictionary -- Adler-32 checksum of the required dictionary is %#08x, checksum of the provided dictionary is %#08x", expectedAdler32, computedAdler32)
			return false
		}
	} else {
		if fr.dict != nil {
			computedAdler32 := adler32.Checksum(fr.dict)
			fr.corruptf("zlib stream was not compressed with a pre-set dictionary -- Adler-32 checksum of the supplied dictionary is %#08x", computedAdler32)
			return false
		}
	}

	fr.actualFormat = ZlibFormat
	return true
}

func (fr *Reader) readFooterZlib(computedAdler32 uint32) bool {
	expectedAdler32, ok := fr.inputBufferReadU32(binary.BigEndian)
	if !ok {
		fr.propagateError(true)
		return false
	}

	if expectedAdler32 != computedAdler32 {
		fr.corruptf("invalid zlib Adler-32 checksum -- footer value %#08x, computed value %#08x", expectedAdler32, computedAdler32)
		return false
	}

	return true
}

func (fr *Reader) readHeaderGZIP() bool {
	fr.inputBytesCRC32 = crc32.New()

	var header [10]byte
	p, ok := fr.inputBufferRead(header[:])
	if !ok {
		fr.propagateError(true)
		return false
	}

	if p[0] != 0x1f || p[1] != 0x8b {
		fr.corruptf("invalid gzip header identification bytes")
		return false
	}

	if p[2] != 0x08 {
		fr.corruptf("invalid gzip compression method %#02x -- expected 0x08 (DEFLATE)", p[2])
		return false
	}

	mtime := binary.LittleEndian.Uint32(p[4:8])
	if mtime != 0 {
		fr.header.LastModified = time.Unix(int64(mtime), 0)
	}

	fr.header.CompressLevel = DefaultCompression
	switch p[8] {
	case 0x02:
		fr.header.CompressLevel = 9
	case 0x04:
		fr.header.CompressLevel = 1
	}

	fr.header.OSType = gzipOSTypeDecodeTable[p[9]]

	bitFTEXT := (p[3] & 0x01) != 0
	bitFHCRC := (p[3] & 0x02) != 0
	bitFEXTRA := (p[3] & 0x04) != 0
	bitFNAME := (p[3] & 0x08) != 0
	bitFCOMMENT := (p[3] & 0x10) != 0
	if (p[3] & 0xe0) != 0 {
		fr.corruptf("invalid gzip flag bits %#02x", p[3]&0xe0)
		return false
	}

	fr.header.DataType = fr.readHeaderGZIPDataType(bitFTEXT)

	ok = ok && fr.readHeaderGZIPExtraData(bitFEXTRA, &fr.header)
	ok = ok && fr.readHeaderGZIPFileName(bitFNAME, &fr.header)
	ok = ok && fr.readHeaderGZIPComment(bitFCOMMENT, &fr.header)

	c32 := fr.inputBytesCRC32.Sum32()
	fr.inputBytesCRC32 = dummyHash32{}

	ok = ok && fr.readHeaderGZIPCRC16(bitFHCRC, c32)
	if !ok {
		return false
	}

	fr.actualFormat = GZIPFormat
	return true
}

func (fr *Reader) readHeaderGZIPDataType(bit bool) DataType {
	dataType := BinaryData
	if bit {
		dataType = TextData
	}
	return dataType
}

func (fr *Reader) readHeaderGZIPExtraData(bit bool, header *Header) bool {
	if bit {
		rawXLen, ok := fr.inputBufferReadU16(binary.LittleEndian)
		if !ok {
			fr.propagateError(true)
			return false
		}

		rawXData, ok := fr.inputBufferRead(make([]byte, rawXLen))
		if !ok {
			fr.propagateError(true)
			return false
		}

		header.ExtraData.Parse(rawXData)
	}
	return true
}

func (fr *Reader) readHeaderGZIPFileName(bit bool, header *Header) bool {
	if bit {
		str, ok := fr.inputBufferReadStringZ()
		if !ok {
			fr.propagateError(true)
			return false
		}

		header.FileName = str
	}
	return true
}

func (fr *Reader) readHeaderGZIPComment(bit bool, header *Header) bool {
	if bit {
		str, ok := fr.inputBufferReadStringZ()
		if !ok {
			fr.propagateError(true)
			return false
		}

		header.Comment = str
	}
	return true
}

func (fr *Reader) readHeaderGZIPCRC16(bit bool, c32 uint32) bool {
	if bit {
		expectedHeaderCRC16, ok := fr.inputBufferReadU16(binary.LittleEndian)
		if !ok {
			fr.propagateError(true)
			return false
		}

		computedHeaderCRC16 := uint16(c32)
		if computedHeaderCRC16 != expectedHeaderCRC16 {
			fr.corruptf("invalid gzip header CRC-16 checksum -- header value %#04x, computed value %#04x", expectedHeaderCRC16, computedHeaderCRC16)
			return false
		}
	}
	return true
}

func (fr *Reader) readFooterGZIP(computedCRC32 uint32) bool {
	expectedCRC32, ok := fr.inputBufferReadU32(binary.LittleEndian)
	if !ok {
		fr.propagateError(true)
		return false
	}

	contentLen, ok := fr.inputBufferReadU32(binary.LittleEndian)
	if !ok {
		fr.propagateError(true)
		return false
	}

	if expectedCRC32 != computedCRC32 {
		fr.corruptf("invalid gzip CRC-32 checksum -- footer value %#08x, computed value %#08x", expectedCRC32, computedCRC32)
		return false
	}

	if contentLen != uint32(fr.outputBytesStream) {
		fr.corruptf("invalid gzip decompressed length (mod 2**32) -- footer value %d, computed value %d", contentLen, uint32(fr.outputBytesStream))
		return false
	}

	return true
}

// readFlateBlocks drives the core Decoder's resumable state machine to
// completion for one embedded raw-DEFLATE stream, moving bytes between the
// Reader's own I/O staging buffers and the Decoder's slice-based Inflate
// call.
func (fr *Reader) readFlateBlocks() bool {
	for {
		if fr.input.IsEmpty() {
			fr.inputBufferFill()
		}
		inView := fr.input.PrepareBulkRead(fr.input.Size())

		consumed, produced, code := fr.decoder.Inflate(inView, fr.scratch, NoFlush)

		if consumed > 0 {
			fr.input.CommitBulkRead(uint(consumed))
			fr.inputBytesTotal += uint64(consumed)
			fr.inputBytesStream += uint64(consumed)
		}
		if produced > 0 {
			fr.outputBufferWrite(fr.scratch[:produced])
		}

		switch code {
		case Ok, NeedsOutputCode:
			// loop and keep going

		case EndOfStreamCode:
			return true

		case NeedsInputCode:
			if fr.input.IsEmpty() {
				fr.inputBufferFill()
				if fr.input.IsEmpty() {
					fr.propagateError(true)
					return false
				}
			}

		case DataErrorCode:
			fr.reportDecoderDataError()
			return false

		case MemoryErrorCode:
			fr.propagateFatal(WindowAllocationError{Problem: "failed to allocate decoder state"})
			return false

		case StreamErrorCode:
			fr.propagateFatal(StreamArgumentError{Problem: "decoder rejected an internal flush argument"})
			return false

		default:
			assert.Raisef("Code %#v not implemented", code)
		}
	}
}

func (fr *Reader) reportDecoderDataError() {
	problem := "corrupt DEFLATE stream"
	if e, ok := fr.decoder.Err().(CorruptInputError); ok {
		problem = e.Problem
	}
	fr.corruptf("%s", problem)
}

func (fr *Reader) propagateFatal(err error) {
	if fr.closed {
		return
	}
	fr.closed = true
	_ = fr.pw.CloseWithError(err)
}

func (fr *Reader) inputBufferFill() {
	if fr.err == nil {
		var err error
		if fr.forceStop {
			err = io.EOF
		} else {
			_, err = fr.input.ReadFrom(fr.r)
		}
		fr.err = err
	}
}

func (fr *Reader) inputBufferRead(p []byte) ([]byte, bool) {
	pLen := uint(len(p))
	if pLen == 0 {
		return p, true
	}

	pIndex := uint(0)
	for pIndex < pLen {
		if fr.input.IsEmpty() {
			fr.inputBufferFill()
			if fr.input.IsEmpty() {
				break
			}
		}
		nn, _ := fr.input.Read(p[pIndex:])
		pIndex += uint(nn)
	}

	fr.inputBytesTotal += uint64(pIndex)
	fr.inputBytesStream += uint64(pIndex)
	fr.inputBytesCRC32.Write(p[:pIndex])
	return p[:pIndex], (pIndex == pLen)
}

func (fr *Reader) inputBufferReadU16(bo binary.ByteOrder) (u16 uint16, ok bool) {
	var tmp [2]byte
	p, pOK := fr.inputBufferRead(tmp[0:2])
	if pOK {
		u16 = bo.Uint16(p)
		ok = true
	}
	return
}

func (fr *Reader) inputBufferReadU32(bo binary.ByteOrder) (u32 uint32, ok bool) {
	var tmp [4]byte
	p, pOK := fr.inputBufferRead(tmp[0:4])
	if pOK {
		u32 = bo.Uint32(p)
		ok = true
	}
	return
}

func (fr *Reader) inputBufferReadStringZ() (str string, ok bool) {
	sb := takeStringsBuilder()
	defer giveStringsBuilder(sb)

	for {
		if fr.input.IsEmpty() {
			fr.inputBufferFill()
			if fr.input.IsEmpty() {
				break
			}
		}

		ch, _ := fr.input.ReadByte()
		fr.inputBytesTotal++
		fr.inputBytesStream++
		fr.inputBytesCRC32.Write([]byte{ch})

		if ch == 0 {
			ok = true
			break
		}

		sb.WriteByte(ch)
	}

	str = sb.String()
	return
}

func (fr *Reader) outputBufferWrite(p []byte) bool {
	pLen := uint(len(p))
	if pLen == 0 {
		return true
	}

	var i uint
	for i < pLen {
		fr.outputBufferTryFlush()

		nn, _ := fr.output.Write(p[i:])

		fr.outputBytesTotal += uint64(nn)
		fr.outputBytesStream += uint64(nn)

		j := i + uint(nn)
		_, _ = fr.outputBytesAdler32.Write(p[i:j])
		_, _ = fr.outputBytesCRC32.Write(p[i:j])
		i = j
	}
	return true
}

func (fr *Reader) outputBufferTryFlush() {
	if fr.output.IsFull() {
		fr.outputBufferMustFlush()
	}
}

func (fr *Reader) outputBufferMustFlush() {
	size := fr.output.Size()
	for !fr.output.IsEmpty() {
		p := fr.output.PrepareBulkRead(size)
		pw := fr.pw

		fr.mu.Unlock()
		nn, _ := pw.Write(p)
		fr.mu.Lock()

		fr.output.CommitBulkRead(uint(nn))
	}
}

func (fr *Reader) propagateError(eofIsError bool) {
	if fr.closed || fr.err == nil {
		return
	}

	err := fr.err
	if eofIsError && err == io.EOF {
		err = io.ErrUnexpectedEOF
	}

	fr.closed = true
	if err == io.EOF {
		_ = fr.pw.Close()
	} else {
		_ = fr.pw.CloseWithError(err)
	}
}

func (fr *Reader) corruptf(format string, v ...interface{}) {
	if fr.closed {
		return
	}

	message := fmt.Sprintf(format, v...)
	err := CorruptInputError{
		OffsetTotal:  fr.inputBytesTotal,
		OffsetStream: fr.inputBytesStream,
		Problem:      message,
	}

	fr.closed = true
	_ = fr.pw.CloseWithError(err)
}

func (fr *Reader) sendEvent(event Event) {
	event.InputBytesTotal = fr.inputBytesTotal
	event.InputBytesStream = fr.inputBytesStream
	event.OutputBytesTotal = fr.outputBytesTotal
	event.OutputBytesStream = fr.outputBytesStream
	event.NumStreams = fr.numStreams
	event.Format = fr.actualFormat
	for _, tr := range fr.tracers {
		tr.OnEvent(event)
	}
}
