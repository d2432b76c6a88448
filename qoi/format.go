package qoi

const (
	quoi_OP_RGB   byte = 0b11111110
	quoi_OP_RGBA  byte = 0b11111111
	quoi_OP_INDEX byte = 0b00
	quoi_OP_DIFF  byte = 0b01
	quoi_OP_LUMA  byte = 0b10
	quoi_OP_RUN   byte = 0b11

	quoi_2B_MASK    byte = 0b11000000
	quoi_6B_PAYLOAD byte = 0b00111111
)

const (
	diffBias      byte = 2
	lumaGreenBias byte = 32
	lumaBias      byte = 8
	runBias       byte = 1

	maxRunLength = 62
)

const windowLength = 64

const headerLength = 4 + 4 + 4 + 1 + 1

// maxPixels bounds width*height so a header alone cannot make the decoder
// allocate gigabytes.
const maxPixels = 400_000_000

const qoiMagic = "qoif"

var qoiMagicBytes = [4]byte{'q', 'o', 'i', 'f'}

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

const (
	ChannelsRGB  byte = 3
	ChannelsRGBA byte = 4
)

// getOP maps the first byte of a chunk to its tag. The two full-byte tags share
// the RUN prefix, so they are checked first.
func getOP(b byte) byte {
	if b == quoi_OP_RGB || b == quoi_OP_RGBA {
		return b
	}
	return (b & quoi_2B_MASK) >> 6
}
