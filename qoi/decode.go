package qoi

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const readAllStep = 1 << 20

// Decoder reads the pixels of a QOI stream. It implements io.Reader: every
// pixel is written as Channels() interleaved bytes, in row-major order, and
// Read returns io.EOF once all width*height pixels were read.
type Decoder struct {
	data        *bufio.Reader
	headerBytes headerBytes
	header      Header
	state       codecState
	outChannels byte

	currentPixel pixel
	repeat       int // copies of currentPixel still to write
	written      int // bytes of the copy being written
	remaining    int // pixels still to write
}

// NewDecoder reads and checks the header of the stream in data.
func NewDecoder(data io.Reader) (*Decoder, error) {
	d := &Decoder{data: bufio.NewReader(data)}
	err := d.decodeHeader()
	if err != nil {
		return nil, err
	}
	d.state = newCodecState(d.header.channels)
	d.outChannels = d.header.channels
	d.remaining = d.header.pixelCount()
	return d, nil
}

func (d *Decoder) decodeHeader() error {
	var err error
	d.headerBytes, err = readHeader(d.data)
	if err != nil {
		return err
	}
	d.header, err = interpretHeaderBytes(d.headerBytes)
	return err
}

func (d *Decoder) Header() Header {
	return d.header
}

func (d *Decoder) Width() int {
	return d.header.Width()
}

func (d *Decoder) Height() int {
	return d.header.Height()
}

func (d *Decoder) Channels() byte {
	return d.outChannels
}

// Read decodes just enough chunks to fill p.
func (d *Decoder) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if d.repeat == 0 {
			if d.remaining == 0 {
				break
			}
			err := d.nextChunk()
			if err != nil {
				return n, err
			}
		}
		c := copy(p[n:], d.currentPixel.v[d.written:d.outChannels])
		n += c
		d.written += c
		if d.written == int(d.outChannels) {
			d.written = 0
			d.repeat--
			d.remaining--
		}
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (d *Decoder) nextChunk() error {
	c, err := readChunk(d.data)
	if err != nil {
		if isEOF(err) {
			return errors.Wrapf(ErrTruncated, "%d pixels missing", d.remaining)
		}
		return errors.Wrap(err, "could not read a chunk")
	}
	p, count := d.state.processChunk(c)
	if count > d.remaining {
		count = d.remaining
	}
	d.currentPixel = p
	d.repeat = count
	return nil
}

// DecodePixels decodes a whole QOI stream into a tightly packed buffer.
func DecodePixels(r io.Reader) ([]byte, Header, error) {
	d, err := NewDecoder(r)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "could not decode the header")
	}
	pix, err := d.ReadAll()
	if err != nil {
		return nil, d.header, errors.Wrap(err, "could not decode the image body")
	}
	return pix, d.header, nil
}

// ReadAll decodes every remaining pixel. The buffer grows as pixels are
// decoded, so a truncated stream fails before the whole image is allocated.
func (d *Decoder) ReadAll() ([]byte, error) {
	total := d.remaining*int(d.outChannels) - d.written
	var pix []byte
	for len(pix) < total {
		n := total - len(pix)
		if n > readAllStep {
			n = readAllStep
		}
		pix = slices.Grow(pix, n)
		read, err := io.ReadFull(d, pix[len(pix):len(pix)+n])
		pix = pix[:len(pix)+read]
		if err != nil {
			return pix, err
		}
	}
	return pix, nil
}
