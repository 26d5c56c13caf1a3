package flate

import (
	"github.com/chronos-tachyon/assert"
)

// Option represents a configuration option for Reader.
type Option func(*options)

type options struct {
	format  Format
	mlevel  MemoryLevel
	wbits   WindowBits
	dict    []byte
	tracers []Tracer
}

func (o *options) reset() {
	*o = options{
		format:  DefaultFormat,
		mlevel:  DefaultMemory,
		wbits:   DefaultWindowBits,
		dict:    nil,
		tracers: nil,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func (o *options) populateReaderDefaults() {
	if o.mlevel == DefaultMemory {
		o.mlevel = FastestMemory
	}
	if o.wbits == DefaultWindowBits {
		o.wbits = MaxWindowBits
	}
}

// WithFormat specifies the Format expected to be read.
func WithFormat(format Format) Option {
	assert.Assertf(format.IsValid(), "invalid Format %d", uint(format))
	return func(o *options) { o.format = format }
}

// WithMemoryLevel specifies the MemoryLevel to use for internal buffer
// sizing.
func WithMemoryLevel(mlevel MemoryLevel) Option {
	assert.Assertf(mlevel.IsValid(), "invalid MemoryLevel %d", uint(mlevel))
	return func(o *options) { o.mlevel = mlevel }
}

// WithWindowBits specifies the maximum WindowBits to expect.
func WithWindowBits(wbits WindowBits) Option {
	assert.Assertf(wbits.IsValid(), "invalid WindowBits %d", uint(wbits))
	return func(o *options) { o.wbits = wbits }
}

// WithDictionary specifies the pre-shared LZ77 dictionary to assume.  May
// specify nil to abandon a previously used pre-shared dictionary.
func WithDictionary(dict []byte) Option {
	assert.Assert(dict == nil || len(dict) > 0, "invalid zero-length dictionary; specify nil to omit the dictionary entirely")
	if dict != nil {
		tmp := make([]byte, len(dict))
		copy(tmp, dict)
		dict = tmp
	}
	return func(o *options) { o.dict = dict }
}

// WithTracers specifies the list of Tracer instances which will receive
// Events as decompression proceeds.  Completely replaces any previous list.
func WithTracers(tracers ...Tracer) Option {
	for _, tr := range tracers {
		assert.NotNil(&tr)
	}
	if len(tracers) == 0 {
		tracers = nil
	} else {
		tmp := make([]Tracer, len(tracers))
		copy(tmp, tracers)
		tracers = tmp
	}
	return func(o *options) { o.tracers = tracers }
}
