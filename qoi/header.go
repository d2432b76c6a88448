package qoi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

type headerBytes [headerLength]byte

// Header is the fixed 14 byte preamble of a QOI stream.
type Header struct {
	magic      [4]byte
	width      uint32
	height     uint32
	channels   byte
	colorspace byte
}

func newHeader(width, height int, channels byte) Header {
	return Header{
		magic:    qoiMagicBytes,
		width:    uint32(width),
		height:   uint32(height),
		channels: channels,
	}
}

func (h Header) Width() int {
	return int(h.width)
}

func (h Header) Height() int {
	return int(h.height)
}

// Channels is 3 for RGB and 4 for RGBA streams.
func (h Header) Channels() byte {
	return h.channels
}

func (h Header) Colorspace() byte {
	return h.colorspace
}

func (h Header) pixelCount() int {
	return int(h.width) * int(h.height)
}

func (h Header) bytes() (b headerBytes) {
	copy(b[:4], h.magic[:])
	binary.BigEndian.PutUint32(b[4:], h.width)
	binary.BigEndian.PutUint32(b[8:], h.height)
	b[12] = h.channels
	b[13] = h.colorspace
	return
}

func (h Header) write(w io.Writer) error {
	b := h.bytes()
	_, err := w.Write(b[:])
	return err
}

func readHeader(r io.Reader) (headerBytes, error) {
	var b headerBytes
	_, err := io.ReadFull(r, b[:])
	if err != nil {
		if isEOF(err) {
			return b, ErrHeaderTooSmall
		}
		return b, errors.Wrap(err, "could not read the header")
	}
	return b, nil
}

func interpretHeaderBytes(b headerBytes) (Header, error) {
	var h Header
	copy(h.magic[:], b[:4])
	if string(h.magic[:]) != qoiMagic {
		return h, errors.Wrapf(ErrInvalidHeader, "invalid magic '%v'", h.magic)
	}
	h.width = binary.BigEndian.Uint32(b[4:])
	h.height = binary.BigEndian.Uint32(b[8:])
	h.channels = b[12]
	h.colorspace = b[13]
	if h.channels != ChannelsRGB && h.channels != ChannelsRGBA {
		return h, errors.Wrapf(ErrInvalidHeader, "invalid channel count %d", h.channels)
	}
	if uint64(h.width)*uint64(h.height) > maxPixels {
		return h, errors.Wrapf(ErrInvalidHeader, "%dx%d image is too large", h.width, h.height)
	}
	return h, nil
}

func writeEndMarker(w io.Writer) error {
	_, err := w.Write(endMarker[:])
	return err
}
