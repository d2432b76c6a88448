package qoi

import (
	"bufio"
	"io"
)

// chunk is one record of the stream. The set of implementations is closed:
// opRGB, opRGBA, opIndex, opDiff, opLuma and opRun.
type chunk interface {
	appendTo(dst []byte) []byte
}

type opRGB struct {
	r, g, b byte
}

type opRGBA struct {
	r, g, b, a byte
}

type opIndex struct {
	index byte
}

// opDiff holds biased deltas, each in [0, 4).
type opDiff struct {
	dr, dg, db byte
}

// opLuma holds the biased green delta in [0, 64) and the biased red/blue
// deltas relative to green, each in [0, 16).
type opLuma struct {
	dg, drdg, dbdg byte
}

// opRun holds the unbiased run length, 1 to 62.
type opRun struct {
	run byte
}

func rgbChunk(p pixel) opRGB {
	return opRGB{p.R(), p.G(), p.B()}
}

func rgbaChunk(p pixel) opRGBA {
	return opRGBA{p.R(), p.G(), p.B(), p.A()}
}

func (c opRGB) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RGB, c.r, c.g, c.b)
}

func (c opRGBA) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RGBA, c.r, c.g, c.b, c.a)
}

func (c opIndex) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_INDEX<<6|c.index&quoi_6B_PAYLOAD)
}

func (c opDiff) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_DIFF<<6|c.dr<<4|c.dg<<2|c.db)
}

func (c opLuma) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_LUMA<<6|c.dg, c.drdg<<4|c.dbdg)
}

func (c opRun) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RUN<<6|(c.run-runBias))
}

// tryDiff returns the DIFF chunk taking prev to cur, if the alpha is unchanged
// and every colour delta is in [-2, 1].
func tryDiff(prev, cur pixel) (opDiff, bool) {
	dr, dg, db, da := cur.Minus(prev)
	if da != 0 {
		return opDiff{}, false
	}
	dr, dg, db = dr+diffBias, dg+diffBias, db+diffBias
	if dr > 3 || dg > 3 || db > 3 {
		return opDiff{}, false
	}
	return opDiff{dr, dg, db}, true
}

// tryLuma returns the LUMA chunk taking prev to cur, if the alpha is unchanged,
// the green delta is in [-32, 31] and the red and blue deltas relative to the
// green one are in [-8, 7].
func tryLuma(prev, cur pixel) (opLuma, bool) {
	dr, dg, db, da := cur.Minus(prev)
	if da != 0 {
		return opLuma{}, false
	}
	bdg := dg + lumaGreenBias
	drdg := dr - dg + lumaBias
	dbdg := db - dg + lumaBias
	if bdg > 63 || drdg > 15 || dbdg > 15 {
		return opLuma{}, false
	}
	return opLuma{bdg, drdg, dbdg}, true
}

func getDIFFValues(c opDiff) (byte, byte, byte) {
	return c.dr - diffBias, c.dg - diffBias, c.db - diffBias
}

func getLUMAValues(c opLuma) (byte, byte, byte) {
	diffGreen := c.dg - lumaGreenBias
	diffRed := diffGreen + c.drdg - lumaBias
	diffBlue := diffGreen + c.dbdg - lumaBias
	return diffRed, diffGreen, diffBlue
}

// chunkSize is the encoded length of a chunk with tag op.
func chunkSize(op byte) int {
	switch op {
	case quoi_OP_RGB:
		return 4
	case quoi_OP_RGBA:
		return 5
	case quoi_OP_LUMA:
		return 2
	default:
		return 1
	}
}

// decodeChunk parses the chunk at the start of b. b must hold at least as many
// bytes as the chunk announced by b[0]. It returns nil if b[0] matches no tag.
func decodeChunk(b []byte) chunk {
	switch getOP(b[0]) {
	case quoi_OP_RGB:
		return opRGB{b[1], b[2], b[3]}
	case quoi_OP_RGBA:
		return opRGBA{b[1], b[2], b[3], b[4]}
	case quoi_OP_DIFF:
		return opDiff{b[0] >> 4 & 0b11, b[0] >> 2 & 0b11, b[0] & 0b11}
	case quoi_OP_INDEX:
		return opIndex{b[0] & quoi_6B_PAYLOAD}
	case quoi_OP_LUMA:
		return opLuma{b[0] & quoi_6B_PAYLOAD, b[1] >> 4, b[1] & 0b1111}
	case quoi_OP_RUN:
		return opRun{b[0]&quoi_6B_PAYLOAD + runBias}
	default:
		return nil
	}
}

// readChunk reads exactly one chunk from r. A stream ending inside a chunk
// yields io.ErrUnexpectedEOF; a stream ending before it yields io.EOF.
func readChunk(r *bufio.Reader) (chunk, error) {
	first, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var buf [5]byte
	buf[0] = first
	size := chunkSize(getOP(first))
	if size > 1 {
		_, err = io.ReadFull(r, buf[1:size])
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
	}
	c := decodeChunk(buf[:size])
	if c == nil {
		return nil, ErrCorrupt
	}
	return c, nil
}
