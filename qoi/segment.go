package qoi

import (
	"io"

	"github.com/gammazero/deque"
	"github.com/gammazero/workerpool"
	"golang.org/x/exp/slices"
)

// segment is a contiguous run of pixels encoded on its own. Every segment but
// the first is encoded blind and fixed up by the stitcher.
type segment struct {
	pixels []byte
	chunks deque.Deque[chunkState]
	state  codecState
}

func encodeSegment(pixels []byte, channels byte, blind bool) *segment {
	seg := &segment{pixels: pixels, state: newCodecState(channels)}
	if blind {
		seg.state = newBlindState(channels)
	}
	var out [2]chunkState
	for i := 0; i < len(pixels); i += int(channels) {
		for _, cs := range seg.state.processPixel(pixelFromBytes(pixels[i:], channels), out[:0]) {
			seg.chunks.PushBack(cs)
		}
	}
	return seg
}

// splitPixels cuts pix into at most n non-empty parts on pixel boundaries.
func splitPixels(pix []byte, channels byte, n int) [][]byte {
	count := len(pix) / int(channels)
	if n > count {
		n = count
	}
	if n < 1 {
		return nil
	}
	parts := make([][]byte, 0, n)
	size, extra := count/n, count%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		parts = append(parts, pix[start*int(channels):end*int(channels)])
		start = end
	}
	return parts
}

// encodeSegments encodes every part of pix on a pool of workers and waits for
// all of them.
func encodeSegments(pix []byte, channels byte, segments, workers int) []*segment {
	parts := splitPixels(pix, channels, segments)
	out := make([]*segment, len(parts))
	if len(parts) <= 1 {
		for i, part := range parts {
			out[i] = encodeSegment(part, channels, false)
		}
		return out
	}
	if workers < 1 || workers > len(parts) {
		workers = len(parts)
	}
	wp := workerpool.New(workers)
	for i, part := range parts {
		i, part := i, part
		wp.Submit(func() {
			out[i] = encodeSegment(part, channels, i > 0)
		})
	}
	wp.StopWait()
	return out
}

// stitcher joins segment outputs in order into the stream a single
// sequential encoder would have written.
type stitcher struct {
	w      io.Writer
	global codecState
	buf    []byte
	out    [2]chunkState
}

func stitch(w io.Writer, segments []*segment) error {
	if len(segments) == 0 {
		return nil
	}
	st := &stitcher{w: w, global: segments[0].state}
	st.appendAll(&segments[0].chunks)
	if err := st.flush(); err != nil {
		return err
	}
	for _, seg := range segments[1:] {
		st.global = st.stitchSegment(st.global, seg)
		if err := st.flush(); err != nil {
			return err
		}
	}
	for _, cs := range st.global.drain(st.out[:0]) {
		st.buf = cs.chunk.appendTo(st.buf)
	}
	return st.flush()
}

func (st *stitcher) flush() error {
	_, err := st.w.Write(st.buf)
	st.buf = st.buf[:0]
	return err
}

func (st *stitcher) appendAll(chunks *deque.Deque[chunkState]) {
	st.buf = slices.Grow(st.buf, chunks.Len()*2)
	for chunks.Len() > 0 {
		st.buf = chunks.PopFront().chunk.appendTo(st.buf)
	}
}

func (st *stitcher) appendRun(run int) {
	st.buf = opRun{byte(run)}.appendTo(st.buf)
}

// stitchSegment writes seg's chunks, fixed up against global, to the buffer
// and returns the state after seg.
func (st *stitcher) stitchSegment(global codecState, seg *segment) codecState {
	st.buf = slices.Grow(st.buf, seg.chunks.Len()*2)

	placeholder := seg.chunks.PopFront()
	fresh := newCodecState(global.channels)
	first, _ := fresh.processChunk(placeholder.chunk)

	state := global
	for _, cs := range state.processPixel(first, st.out[:0]) {
		st.buf = cs.chunk.appendTo(st.buf)
	}
	if state.window[first.Hash()] != first {
		// The first pixel only extends the opaque black run the image
		// starts with, so it never entered the window. The segment assumed
		// it did: encode it again from the real state.
		return st.reencode(global, seg)
	}

	runToEnd, pending := false, 0
	if state.runLength > 0 {
		// The first pixel continues a run. The segment split that run
		// into its own run chunks, which are folded back into one.
		run := int(state.runLength)
		for seg.chunks.Len() > 0 {
			c, ok := seg.chunks.Front().chunk.(opRun)
			if !ok {
				break
			}
			run += int(c.run)
			seg.chunks.PopFront()
		}
		if seg.chunks.Len() == 0 {
			run += int(seg.state.runLength)
			runToEnd = true
		}
		for run > maxRunLength {
			st.appendRun(maxRunLength)
			run -= maxRunLength
		}
		if runToEnd {
			pending = run
		} else {
			st.appendRun(run)
		}
	}

	for seg.chunks.Len() > 0 {
		st.buf = state.resolve(seg.chunks.PopFront()).appendTo(st.buf)
	}

	state.merge(seg.state)
	if runToEnd {
		state.runLength = byte(pending)
	}
	return state
}

func (st *stitcher) reencode(global codecState, seg *segment) codecState {
	st.buf = st.buf[:0]
	channels := int(global.channels)
	for i := 0; i < len(seg.pixels); i += channels {
		for _, cs := range global.processPixel(pixelFromBytes(seg.pixels[i:], global.channels), st.out[:0]) {
			st.buf = cs.chunk.appendTo(st.buf)
		}
	}
	return global
}
