package qoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunksOf(states []chunkState) []chunk {
	chunks := make([]chunk, len(states))
	for i, cs := range states {
		chunks[i] = cs.chunk
	}
	return chunks
}

func feed(s *codecState, pixels ...pixel) []chunkState {
	var out []chunkState
	for _, p := range pixels {
		out = s.processPixel(p, out)
	}
	return out
}

func TestProcessPixelRun(t *testing.T) {
	s := newCodecState(ChannelsRGB)
	p := rgba(100, 100, 0, 255)
	out := feed(&s, p, p, p, p)
	out = s.drain(out)
	assert.Equal(t, []chunk{opRGB{100, 100, 0}, opRun{3}}, chunksOf(out))
}

func TestProcessPixelRunCap(t *testing.T) {
	s := newCodecState(ChannelsRGBA)
	p := rgba(9, 9, 9, 9)
	pixels := make([]pixel, 1+maxRunLength+1)
	for i := range pixels {
		pixels[i] = p
	}
	out := feed(&s, pixels...)
	require.Len(t, out, 2)
	assert.Equal(t, opRun{maxRunLength}, out[1].chunk)
	assert.Equal(t, byte(1), s.runLength, "the pixel after a full run starts a new one")
	out = s.drain(nil)
	assert.Equal(t, []chunk{opRun{1}}, chunksOf(out))
}

func TestProcessPixelStartPixelIsARun(t *testing.T) {
	s := newCodecState(ChannelsRGBA)
	out := feed(&s, startPixel, startPixel)
	assert.Empty(t, out)
	assert.Equal(t, byte(2), s.runLength)
	assert.NotEqual(t, startPixel, s.window[startPixel.Hash()])
}

func TestProcessPixelZeroPixelIsIndexed(t *testing.T) {
	s := newCodecState(ChannelsRGBA)
	out := feed(&s, rgba(0, 0, 0, 0))
	assert.Equal(t, []chunk{opIndex{0}}, chunksOf(out))
}

func TestProcessPixelIndex(t *testing.T) {
	s := newCodecState(ChannelsRGB)
	a, b := rgba(100, 100, 0, 255), rgba(150, 100, 0, 255)
	out := feed(&s, a, b, a, b)
	assert.Equal(t, []chunk{opRGB{100, 100, 0}, opRGB{150, 100, 0}, opIndex{21}, opIndex{43}}, chunksOf(out))
	for _, cs := range out {
		assert.True(t, cs.resolved)
	}
}

func TestProcessPixelRunThenLiteral(t *testing.T) {
	s := newCodecState(ChannelsRGBA)
	a := rgba(50, 50, 50, 255)
	out := feed(&s, a, a, a, a.Add(1, 0, 255))
	assert.Equal(t, []chunk{opRGB{50, 50, 50}, opRun{2}, opDiff{3, 2, 1}}, chunksOf(out))
}

func TestProcessPixelLumaAndAlpha(t *testing.T) {
	s := newCodecState(ChannelsRGBA)
	a := rgba(50, 50, 50, 255)
	out := feed(&s, a, a.Add(20, 20, 20), rgba(70, 70, 70, 128))
	assert.Equal(t, []chunk{opRGB{50, 50, 50}, opLuma{52, 8, 8}, opRGBA{70, 70, 70, 128}}, chunksOf(out))
}

func TestProcessPixelMarksModified(t *testing.T) {
	s := newCodecState(ChannelsRGB)
	a, b := rgba(100, 100, 0, 255), rgba(150, 100, 0, 255)
	feed(&s, a, b, a)
	assert.Equal(t, slotSet(1<<21|1<<43), s.modified)
}

func TestBlindStatePlaceholder(t *testing.T) {
	s := newBlindState(ChannelsRGB)
	p := rgba(1, 2, 3, 255)
	out := feed(&s, p)
	require.Len(t, out, 1)
	assert.False(t, out[0].resolved)
	assert.Equal(t, opRGBA{1, 2, 3, 255}, out[0].chunk)
	assert.True(t, s.modified.has(p.Hash()))

	out = feed(&s, p, p.Add(1, 1, 1))
	assert.Equal(t, []chunk{opRun{1}, opDiff{3, 3, 3}}, chunksOf(out))
	assert.False(t, out[1].resolved, "the window slot was never written by this segment")
}

func TestBlindStateIgnoresUnwrittenSlots(t *testing.T) {
	s := newBlindState(ChannelsRGBA)
	zero := rgba(0, 0, 0, 0)
	out := feed(&s, rgba(0, 0, 1, 0), zero, rgba(0, 0, 1, 0), zero)
	assert.Equal(t, []chunk{opRGBA{0, 0, 1, 0}, opDiff{2, 2, 1}, opIndex{rgba(0, 0, 1, 0).Hash()}, opIndex{0}}, chunksOf(out))
	assert.False(t, out[1].resolved)
	assert.True(t, out[2].resolved)
	assert.True(t, out[3].resolved)
}

func TestResolve(t *testing.T) {
	p := rgba(7, 7, 7, 7)
	cs := unresolved(opRGBA{7, 7, 7, 7}, p)

	s := newCodecState(ChannelsRGBA)
	assert.Equal(t, opRGBA{7, 7, 7, 7}, s.resolve(cs))
	s.cachePixel(p)
	assert.Equal(t, opIndex{p.Hash()}, s.resolve(cs))
	assert.Equal(t, opDiff{2, 2, 2}, s.resolve(resolved(opDiff{2, 2, 2})))
}

func TestMergeKeepsUnmodifiedSlots(t *testing.T) {
	global := newCodecState(ChannelsRGBA)
	a, b := rgba(100, 100, 0, 255), rgba(150, 100, 0, 255)
	feed(&global, a)

	next := newBlindState(ChannelsRGBA)
	feed(&next, b, b, b)
	global.merge(next)

	assert.Equal(t, a, global.window[a.Hash()])
	assert.Equal(t, b, global.window[b.Hash()])
	assert.Equal(t, b, global.lastPixel)
	assert.Equal(t, byte(2), global.runLength)
	assert.True(t, global.modified.has(a.Hash()))
	assert.True(t, global.modified.has(b.Hash()))
}

func TestProcessChunk(t *testing.T) {
	s := newCodecState(ChannelsRGB)
	p, n := s.processChunk(opRun{5})
	assert.Equal(t, startPixel, p)
	assert.Equal(t, 5, n)
	assert.Equal(t, pixel{}, s.window[startPixel.Hash()], "runs never touch the window")

	p, n = s.processChunk(opRGB{100, 100, 0})
	assert.Equal(t, rgba(100, 100, 0, 255), p)
	assert.Equal(t, 1, n)

	p, _ = s.processChunk(opRGBA{150, 100, 0, 3})
	assert.Equal(t, rgba(150, 100, 0, 3), p)

	p, _ = s.processChunk(opIndex{21})
	assert.Equal(t, rgba(100, 100, 0, 255), p)

	p, _ = s.processChunk(opDiff{3, 2, 1})
	assert.Equal(t, rgba(101, 100, 255, 255), p)

	s.processChunk(opRGBA{0, 0, 0, 7})
	p, _ = s.processChunk(opRGB{1, 2, 3})
	assert.Equal(t, rgba(1, 2, 3, 7), p, "RGB chunks keep the previous alpha")
}
