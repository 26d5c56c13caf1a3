package flate

// slidingWindow is a circular buffer of the most recently emitted output
// bytes, retained across Inflate calls so that back-references may point
// into output produced by an earlier call.  Allocation is deferred to
// ensureAllocated, which SetDictionary and the start of every Inflate call
// invoke; the buffer therefore exists from the first Inflate call on,
// whether or not that call produces any output.
type slidingWindow struct {
	wbits byte
	wsize uint32
	wnext uint32
	whave uint32
	buf   []byte
}

func (w *slidingWindow) init(wbits byte) {
	w.wbits = wbits
	w.wsize = uint32(1) << wbits
	w.wnext = 0
	w.whave = 0
	w.buf = nil
}

// ensureAllocated allocates the window's backing buffer on first use.  Go's
// allocator panics rather than returning an error on exhaustion, so this
// can only ever return a non-nil error if wsize is zero, which init never
// produces for a validated WindowBits; it exists so callers have a single
// place to attach WindowAllocationError / modeMem semantics.
func (w *slidingWindow) ensureAllocated() error {
	if w.buf == nil {
		if w.wsize == 0 {
			return WindowAllocationError{Problem: "window size is zero"}
		}
		w.buf = make([]byte, w.wsize)
	}
	return nil
}

func (w *slidingWindow) clear() {
	w.wnext = 0
	w.whave = 0
}

// append copies the last min(len(src), wsize) bytes of src into the
// circular buffer, advancing wnext modulo wsize and saturating whave at
// wsize.
func (w *slidingWindow) append(src []byte) {
	n := uint32(len(src))
	if n == 0 {
		return
	}

	if n >= w.wsize {
		copy(w.buf, src[n-w.wsize:])
		w.wnext = 0
		w.whave = w.wsize
		return
	}

	end := w.wnext + n
	if end <= w.wsize {
		copy(w.buf[w.wnext:end], src)
	} else {
		first := w.wsize - w.wnext
		copy(w.buf[w.wnext:], src[:first])
		copy(w.buf[:end-w.wsize], src[first:])
	}
	w.wnext = end % w.wsize

	w.whave += n
	if w.whave > w.wsize {
		w.whave = w.wsize
	}
}

// available reports how many bytes of back-reference history are visible:
// whatever the window holds from earlier calls, plus whatever has already
// been written to out during the call in progress.
func (w *slidingWindow) available(outPos uint32) uint32 {
	return w.whave + outPos
}

// copyByte returns the byte `distance` positions before the current write
// cursor, drawing from the live output region of the call in progress
// (out[:outPos]) when distance <= outPos, and from the window otherwise.
func (w *slidingWindow) copyByte(distance uint32, out []byte, outPos uint32) byte {
	if distance <= outPos {
		return out[outPos-distance]
	}
	back := distance - outPos
	idx := (w.wnext + w.wsize - back) % w.wsize
	return w.buf[idx]
}
