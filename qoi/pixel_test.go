package qoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, byte(21), rgba(100, 100, 0, 255).Hash())
	assert.Equal(t, byte(43), rgba(150, 100, 0, 255).Hash())
	assert.Equal(t, byte(53), startPixel.Hash())
	assert.Equal(t, byte(0), pixel{}.Hash(), "the zero pixel must sit in slot 0")
}

func TestHashWraps(t *testing.T) {
	p := rgba(255, 255, 255, 255)
	// 255*(3+5+7+11) = 6630, which is 230 once truncated to a byte
	assert.Equal(t, byte(230%64), p.Hash())
}

func TestAddWraps(t *testing.T) {
	p := rgba(255, 0, 10, 7).Add(1, 255, 0)
	assert.Equal(t, rgba(0, 255, 10, 7), p)
	assert.Equal(t, rgba(0, 255, 10, 7).Hash(), p.Hash())
}

func TestMinus(t *testing.T) {
	r, g, b, a := rgba(0, 10, 200, 255).Minus(rgba(1, 8, 200, 0))
	assert.Equal(t, byte(255), r)
	assert.Equal(t, byte(2), g)
	assert.Equal(t, byte(0), b)
	assert.Equal(t, byte(255), a)
}

func TestPixelFromBytes(t *testing.T) {
	assert.Equal(t, rgba(1, 2, 3, 255), pixelFromBytes([]byte{1, 2, 3, 4}, ChannelsRGB))
	assert.Equal(t, rgba(1, 2, 3, 4), pixelFromBytes([]byte{1, 2, 3, 4}, ChannelsRGBA))
}
