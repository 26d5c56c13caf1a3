package flate

import (
	"fmt"
)

// CorruptInputError is returned when the stream being decompressed contains
// data that violates the compression format standard.
type CorruptInputError struct {
	OffsetTotal  uint64
	OffsetStream uint64
	Problem      string
}

// Error fulfills the error interface.
func (err CorruptInputError) Error() string {
	return fmt.Sprintf("corrupt input at/near byte offset %d: %s", err.OffsetStream, err.Problem)
}

var _ error = CorruptInputError{}

// StreamArgumentError is returned when a caller passes an invalid argument
// to a Decoder method, such as a flush value the Decoder does not
// recognize, or a nil buffer where one is required.
type StreamArgumentError struct {
	Problem string
}

// Error fulfills the error interface.
func (err StreamArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", err.Problem)
}

var _ error = StreamArgumentError{}

// WindowAllocationError is returned when the Decoder cannot allocate the
// sliding window that a stream's parameters require.
// Once returned, the Decoder that produced it is unusable and must be
// discarded.
type WindowAllocationError struct {
	Problem string
}

// Error fulfills the error interface.
func (err WindowAllocationError) Error() string {
	return fmt.Sprintf("failed to allocate decoder state: %s", err.Problem)
}

var _ error = WindowAllocationError{}
