package qoi

type pixelBytes [4]byte

// pixel carries its cache slot alongside the channels. Two pixels with equal
// channels always have equal hashes, so == compares channels only in effect.
type pixel struct {
	v    pixelBytes
	hash byte
}

func newPixel(v pixelBytes) (p pixel) {
	p = pixel{v: v}
	p.calculateHash()
	return
}

func rgba(r, g, b, a byte) pixel {
	return newPixel(pixelBytes{r, g, b, a})
}

// pixelFromBytes reads one pixel from an interleaved buffer. Three channel
// pixels are opaque.
func pixelFromBytes(b []byte, channels byte) pixel {
	if channels == ChannelsRGB {
		return rgba(b[0], b[1], b[2], 255)
	}
	return rgba(b[0], b[1], b[2], b[3])
}

var startPixel = rgba(0, 0, 0, 255)

func (p pixel) R() byte {
	return p.v[0]
}

func (p pixel) G() byte {
	return p.v[1]
}

func (p pixel) B() byte {
	return p.v[2]
}

func (p pixel) A() byte {
	return p.v[3]
}

// the mulX methods allow for some compiler magic to minimally enhance performance. Also helps with profiling
func (p pixel) mulR() byte {
	return p.R() * 3
}

func (p pixel) mulG() byte {
	return p.G() * 5
}

func (p pixel) mulB() byte {
	return p.B() * 7
}

func (p pixel) mulA() byte {
	return p.A() * 11
}

// Add applies wrapping channel deltas to the colour channels.
func (p pixel) Add(r, g, b byte) pixel {
	p.v[0] += r
	p.v[1] += g
	p.v[2] += b
	p.calculateHash()
	return p
}

// Minus returns the wrapping per-channel difference p - p2.
func (p pixel) Minus(p2 pixel) (r, g, b, a byte) {
	return p.R() - p2.R(), p.G() - p2.G(), p.B() - p2.B(), p.A() - p2.A()
}

func (p pixel) Hash() byte {
	return p.hash
}

func (p *pixel) calculateHash() {
	p.hash = (p.mulR() + p.mulG() + p.mulB() + p.mulA()) % windowLength
}
