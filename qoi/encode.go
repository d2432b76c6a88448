package qoi

import (
	"bufio"
	"io"
	"runtime"

	"github.com/pkg/errors"
)

// Encoder configures how pixel buffers are encoded. The zero value splits the
// image into one segment per available CPU.
//
// The output does not depend on Segments or Workers: every setting produces
// the bytes of a single sequential encode.
type Encoder struct {
	// Segments is the number of independently encoded parts of the image.
	// Values below 1 mean runtime.GOMAXPROCS(0).
	Segments int
	// Workers bounds how many segments are encoded at once. Values below 1
	// mean one worker per segment.
	Workers int
}

// EncodePixels writes pix as a QOI stream to w with the default Encoder.
func EncodePixels(w io.Writer, pix []byte, width, height int, channels byte) error {
	var enc Encoder
	return enc.Encode(w, pix, width, height, channels)
}

// Encode writes pix, a tightly packed buffer of width*height pixels with
// channels (3 or 4) interleaved bytes each, as a QOI stream to w.
func (enc *Encoder) Encode(w io.Writer, pix []byte, width, height int, channels byte) error {
	err := validateBuffer(pix, width, height, channels)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	header := newHeader(width, height, channels)
	err = header.write(out)
	if err != nil {
		return errors.Wrap(err, "could not encode the header")
	}
	segments := encodeSegments(pix, channels, enc.segments(), enc.Workers)
	err = stitch(out, segments)
	if err != nil {
		return errors.Wrap(err, "could not encode the image body")
	}
	err = writeEndMarker(out)
	if err != nil {
		return errors.Wrap(err, "could not encode the end marker")
	}
	return errors.Wrap(out.Flush(), "could not flush the output")
}

func (enc *Encoder) segments() int {
	if enc.Segments < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return enc.Segments
}

func validateBuffer(pix []byte, width, height int, channels byte) error {
	if channels != ChannelsRGB && channels != ChannelsRGBA {
		return errors.Wrapf(ErrInvalidBuffer, "unsupported channel count %d", channels)
	}
	if width < 0 || height < 0 || uint64(width) > 1<<32-1 || uint64(height) > 1<<32-1 {
		return errors.Wrapf(ErrInvalidBuffer, "invalid dimensions %dx%d", width, height)
	}
	if want := uint64(width) * uint64(height) * uint64(channels); uint64(len(pix)) != want {
		return errors.Wrapf(ErrInvalidBuffer, "got %d bytes, want %d", len(pix), want)
	}
	return nil
}
