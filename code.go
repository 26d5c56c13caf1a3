package flate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Code is the return value of a Decoder's Inflate call, indicating what
// progress was made and what the caller should do next.
type Code byte

const (
	// Ok indicates that progress was made; the caller should loop and
	// call Inflate again if more input or output remains of interest.
	Ok Code = iota

	// EndOfStreamCode indicates that the final block has been fully
	// consumed and decompression of the current stream is complete.
	EndOfStreamCode

	// NeedsInputCode indicates that the Decoder suspended because it
	// exhausted avail_in; the caller must supply more input.
	NeedsInputCode

	// NeedsOutputCode indicates that the Decoder suspended because it
	// exhausted avail_out; the caller must drain output.
	NeedsOutputCode

	// BufferErrorCode indicates that no progress was possible and either
	// Finish was requested without reaching end-of-stream, or both
	// buffers were empty.
	BufferErrorCode

	// DataErrorCode indicates that the stream is malformed.  The
	// Decoder's Mode becomes modeBad and every subsequent call returns
	// DataErrorCode with the same error from Err.
	DataErrorCode

	// StreamErrorCode indicates that the caller supplied invalid
	// arguments to Inflate: an unrecognized FlushType or a nil output
	// slice.
	StreamErrorCode

	// MemoryErrorCode indicates that the sliding window could not be
	// allocated.  The Decoder's Mode becomes modeMem, a terminal state.
	MemoryErrorCode
)

var codeData = []enumhelper.EnumData{
	{GoName: "Ok", Name: "ok"},
	{GoName: "EndOfStreamCode", Name: "end-of-stream"},
	{GoName: "NeedsInputCode", Name: "needs-input"},
	{GoName: "NeedsOutputCode", Name: "needs-output"},
	{GoName: "BufferErrorCode", Name: "buffer-error"},
	{GoName: "DataErrorCode", Name: "data-error"},
	{GoName: "StreamErrorCode", Name: "stream-error"},
	{GoName: "MemoryErrorCode", Name: "memory-error"},
}

// GoString returns the Go string representation of this Code constant.
func (c Code) GoString() string {
	return enumhelper.DereferenceEnumData("Code", codeData, uint(c)).GoName
}

// String returns the string representation of this Code constant.
func (c Code) String() string {
	return enumhelper.DereferenceEnumData("Code", codeData, uint(c)).Name
}

var _ fmt.GoStringer = Code(0)
var _ fmt.Stringer = Code(0)
