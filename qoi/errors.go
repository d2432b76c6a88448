package qoi

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrHeaderTooSmall is returned when fewer than 14 header bytes are available.
	ErrHeaderTooSmall = errors.New("qoi: header too small")
	// ErrInvalidHeader is returned for a bad magic, a channel count other than 3 or 4
	// or more than 400 million pixels.
	ErrInvalidHeader = errors.New("qoi: invalid header")
	// ErrTruncated is returned when the stream ends before every pixel was decoded.
	ErrTruncated = errors.New("qoi: truncated stream")
	// ErrCorrupt is returned when a byte matches no chunk tag.
	ErrCorrupt = errors.New("qoi: corrupt stream")
	// ErrInvalidBuffer is returned when a pixel buffer does not match its dimensions.
	ErrInvalidBuffer = errors.New("qoi: invalid pixel buffer")
)

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
