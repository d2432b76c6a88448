package qoi

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

func init() {
	image.RegisterFormat("qoi", qoiMagic, Decode, DecodeConfig)
}

// Decode reads a QOI image from r and returns it as an *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	decoder, err := NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the header")
	}
	decoder.outChannels = ChannelsRGBA
	pix, err := decoder.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the image body")
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: 4 * decoder.Width(),
		Rect:   image.Rect(0, 0, decoder.Width(), decoder.Height()),
	}, nil
}

//DecodeConfig returns the color model and dimensions of a QOI image without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	decoder, err := NewDecoder(r)
	if err != nil {
		return image.Config{}, errors.Wrap(err, "could not decode the header")
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      decoder.Width(),
		Height:     decoder.Height(),
	}, nil
}

// Encode writes the Image m to w in QOI format with four channels.
func Encode(w io.Writer, m image.Image) error {
	var enc Encoder
	return enc.EncodeImage(w, m)
}

// EncodeImage writes the Image m to w in QOI format with four channels. Images
// that are not image.NRGBA are converted first, which may be lossy.
func (enc *Encoder) EncodeImage(w io.Writer, m image.Image) error {
	img := toNRGBA(m)
	size := img.Bounds().Size()
	return enc.Encode(w, img.Pix, size.X, size.Y, ChannelsRGBA)
}

// toNRGBA returns m as an NRGBA image whose Pix holds exactly its pixels.
func toNRGBA(m image.Image) *image.NRGBA {
	bounds := m.Bounds()
	if img, ok := m.(*image.NRGBA); ok && isTight(img) {
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), m, bounds.Min, draw.Src)
	return img
}

func isTight(img *image.NRGBA) bool {
	size := img.Bounds().Size()
	return img.Stride == 4*size.X && len(img.Pix) == 4*size.X*size.Y
}
