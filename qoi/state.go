package qoi

// slotSet is a bitset over the 64 cache slots.
type slotSet uint64

func (s slotSet) has(slot byte) bool {
	return s&(1<<slot) != 0
}

func (s *slotSet) add(slot byte) {
	*s |= 1 << slot
}

// chunkState wraps a chunk produced by the encoder. An unresolved chunk was
// produced without knowing the cache contents inherited from earlier
// segments: it becomes an INDEX chunk if that cache turns out to hold pixel.
type chunkState struct {
	chunk    chunk
	pixel    pixel
	resolved bool
}

func resolved(c chunk) chunkState {
	return chunkState{chunk: c, resolved: true}
}

func unresolved(c chunk, p pixel) chunkState {
	return chunkState{chunk: c, pixel: p}
}

// codecState is the state shared by the encoder and the decoder. It is a
// plain value: copying it clones it.
type codecState struct {
	lastPixel pixel
	window    [windowLength]pixel
	runLength byte
	channels  byte

	// modified marks the window slots this state wrote itself.
	modified slotSet
	// blind states encode a segment that does not start the image. They
	// know nothing about the window or the previous pixel they inherit.
	blind  bool
	primed bool
}

func newCodecState(channels byte) codecState {
	// the zero pixel is transparent black, which hashes to slot 0
	return codecState{lastPixel: startPixel, channels: channels}
}

func newBlindState(channels byte) codecState {
	s := newCodecState(channels)
	s.blind = true
	return s
}

func (s *codecState) cachePixel(p pixel) {
	s.window[p.Hash()] = p
	s.modified.add(p.Hash())
}

// processPixel feeds one pixel to the encoder and appends the zero, one or two
// chunks it produces to out.
func (s *codecState) processPixel(p pixel, out []chunkState) []chunkState {
	if s.blind && !s.primed {
		// The first pixel of a blind segment is a placeholder that the
		// stitcher always re-encodes against the real state.
		s.primed = true
		s.cachePixel(p)
		s.lastPixel = p
		return append(out, unresolved(rgbaChunk(p), p))
	}

	if p == s.lastPixel && s.runLength < maxRunLength {
		s.runLength++
		return out
	}
	if s.runLength > 0 {
		out = append(out, resolved(opRun{s.runLength}))
		if p == s.lastPixel {
			s.runLength = 1
			return out
		}
		s.runLength = 0
	}

	hash := p.Hash()
	known := !s.blind || s.modified.has(hash)
	if known && s.window[hash] == p {
		s.lastPixel = p
		return append(out, resolved(opIndex{hash}))
	}

	// Only pixels that reach this point can be missing from the window.
	s.cachePixel(p)
	c := s.literal(p)
	s.lastPixel = p
	if !known {
		return append(out, unresolved(c, p))
	}
	return append(out, resolved(c))
}

func (s *codecState) literal(p pixel) chunk {
	if p.A() != s.lastPixel.A() && s.channels != ChannelsRGB {
		return rgbaChunk(p)
	}
	if c, ok := tryDiff(s.lastPixel, p); ok {
		return c
	}
	if c, ok := tryLuma(s.lastPixel, p); ok {
		return c
	}
	return rgbChunk(p)
}

// drain appends the pending run, if any.
func (s *codecState) drain(out []chunkState) []chunkState {
	if s.runLength > 0 {
		out = append(out, resolved(opRun{s.runLength}))
		s.runLength = 0
	}
	return out
}

// resolve returns the final form of cs against this state's window.
func (s *codecState) resolve(cs chunkState) chunk {
	if cs.resolved {
		return cs.chunk
	}
	hash := cs.pixel.Hash()
	if s.window[hash] == cs.pixel {
		return opIndex{hash}
	}
	return cs.chunk
}

// merge folds the state of the segment that follows s into s. Window slots
// the segment never wrote keep the value s already holds.
func (s *codecState) merge(next codecState) {
	s.lastPixel = next.lastPixel
	s.runLength = next.runLength
	for i := range next.window {
		if next.modified.has(byte(i)) {
			s.window[i] = next.window[i]
		}
	}
	s.modified |= next.modified
}

// processChunk feeds one chunk to the decoder and returns the pixel it stands
// for and how many times it repeats.
func (s *codecState) processChunk(c chunk) (pixel, int) {
	var p pixel
	switch c := c.(type) {
	case opRun:
		return s.lastPixel, int(c.run)
	case opRGB:
		p = rgba(c.r, c.g, c.b, s.lastPixel.A())
	case opRGBA:
		p = rgba(c.r, c.g, c.b, c.a)
	case opIndex:
		p = s.window[c.index]
	case opDiff:
		p = s.lastPixel.Add(getDIFFValues(c))
	case opLuma:
		p = s.lastPixel.Add(getLUMAValues(c))
	}
	s.window[p.Hash()] = p
	s.lastPixel = p
	return p, 1
}
