package flate

import (
	"strings"
	"sync"

	"github.com/chronos-tachyon/assert"
)

var sbPool = sync.Pool{
	New: func() interface{} {
		sb := new(strings.Builder)
		sb.Grow(256)
		return sb
	},
}

func takeStringsBuilder() *strings.Builder {
	return sbPool.Get().(*strings.Builder)
}

func giveStringsBuilder(sb *strings.Builder) {
	assert.NotNil(&sb)
	sb.Reset()
	sbPool.Put(sb)
}
