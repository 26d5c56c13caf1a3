package flate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Mode identifies the current state of a Decoder's resumable state machine.
// A Decoder persists its Mode across suspending Inflate calls so that the
// next call resumes exactly where the previous one left off.
type Mode byte

const (
	// modeHead is the entry mode; it transitions immediately to
	// modeTypeDo, since raw DEFLATE has no stream header of its own.
	modeHead Mode = iota

	// modeType is the boundary between blocks; Inflate returns here if
	// the call's flush is BlockFlush or TreesFlush.
	modeType

	// modeTypeDo reads the 3-bit block header (BFINAL + BTYPE).
	modeTypeDo

	// modeStored reads LEN/NLEN for a stored block after byte-aligning.
	modeStored

	// modeCopyBegin and modeCopy bulk-copy a stored block's payload.
	modeCopyBegin
	modeCopy

	// modeTable reads HLIT/HDIST/HCLEN for a dynamic block.
	modeTable

	// modeLenLens reads the code-length alphabet's own code lengths and
	// builds its decoding table.
	modeLenLens

	// modeCodeLens decodes the literal/length and distance code length
	// vectors using the code-length table.
	modeCodeLens

	// modeLenBegin and modeLen decode one literal/length symbol.  There
	// is no separate fast path; every symbol goes through this mode.
	modeLenBegin
	modeLen

	// modeLenExt reads extra length bits.
	modeLenExt

	// modeDist decodes a distance symbol.
	modeDist

	// modeDistExt reads extra distance bits.
	modeDistExt

	// modeMatch copies a back-reference into the output.
	modeMatch

	// modeLit emits a single literal byte.
	modeLit

	// modeCheck and modeDone perform end-of-stream cleanup.
	modeCheck
	modeDone

	// modeBad is a terminal error mode; every subsequent call returns
	// DataErrorCode with the same attached error.
	modeBad

	// modeMem is a terminal allocation-failure mode.
	modeMem
)

var modeData = []enumhelper.EnumData{
	{GoName: "modeHead", Name: "HEAD"},
	{GoName: "modeType", Name: "TYPE"},
	{GoName: "modeTypeDo", Name: "TYPEDO"},
	{GoName: "modeStored", Name: "STORED"},
	{GoName: "modeCopyBegin", Name: "COPY_"},
	{GoName: "modeCopy", Name: "COPY"},
	{GoName: "modeTable", Name: "TABLE"},
	{GoName: "modeLenLens", Name: "LENLENS"},
	{GoName: "modeCodeLens", Name: "CODELENS"},
	{GoName: "modeLenBegin", Name: "LEN_"},
	{GoName: "modeLen", Name: "LEN"},
	{GoName: "modeLenExt", Name: "LENEXT"},
	{GoName: "modeDist", Name: "DIST"},
	{GoName: "modeDistExt", Name: "DISTEXT"},
	{GoName: "modeMatch", Name: "MATCH"},
	{GoName: "modeLit", Name: "LIT"},
	{GoName: "modeCheck", Name: "CHECK"},
	{GoName: "modeDone", Name: "DONE"},
	{GoName: "modeBad", Name: "BAD"},
	{GoName: "modeMem", Name: "MEM"},
}

// GoString returns the Go string representation of this Mode constant.
func (m Mode) GoString() string {
	return enumhelper.DereferenceEnumData("Mode", modeData, uint(m)).GoName
}

// String returns the string representation of this Mode constant.
func (m Mode) String() string {
	return enumhelper.DereferenceEnumData("Mode", modeData, uint(m)).Name
}

var _ fmt.GoStringer = Mode(0)
var _ fmt.Stringer = Mode(0)
