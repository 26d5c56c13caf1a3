package flate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// FlushType selects how much progress Inflate must make before returning
// control to the caller.
type FlushType byte

const (
	// NoFlush requests that Inflate emit as much output as the buffers
	// allow before suspending.  Equivalent to SyncFlush for a decoder,
	// since decompression has no block-boundary lookahead to lose.
	NoFlush FlushType = iota

	// SyncFlush behaves identically to NoFlush.  The distinction exists
	// upstream for the encoder; a decoder always flushes everything it
	// can produce.
	SyncFlush

	// BlockFlush requests that Inflate return as soon as the current
	// DEFLATE block has been fully consumed, even if more input and
	// output capacity remain.
	BlockFlush

	// TreesFlush requests that Inflate return as soon as a dynamic
	// block's Huffman tables have been built, before any symbols in the
	// block body are decoded.
	TreesFlush

	// Finish requests that Inflate treat anything short of EndOfStream
	// as a BufferError rather than a suspension.
	Finish
)

var flushTypeData = []enumhelper.EnumData{
	{GoName: "NoFlush", Name: "none"},
	{GoName: "SyncFlush", Name: "sync"},
	{GoName: "BlockFlush", Name: "block"},
	{GoName: "TreesFlush", Name: "trees"},
	{GoName: "Finish", Name: "finish"},
}

// IsValid returns true if f is a valid FlushType constant.
func (f FlushType) IsValid() bool {
	return f >= NoFlush && f <= Finish
}

// GoString returns the Go string representation of this FlushType constant.
func (f FlushType) GoString() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).GoName
}

// String returns the string representation of this FlushType constant.
func (f FlushType) String() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this FlushType constant.
func (f FlushType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("FlushType", flushTypeData, uint(f))
}

var _ fmt.GoStringer = FlushType(0)
var _ fmt.Stringer = FlushType(0)
