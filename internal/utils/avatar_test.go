package utils

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedAvatarExt(t *testing.T) {
	assert.True(t, AllowedAvatarExt("me.jpg"))
	assert.True(t, AllowedAvatarExt("me.jpeg"))
	assert.True(t, AllowedAvatarExt("ME.PNG"))
	assert.False(t, AllowedAvatarExt("me.gif"))
	assert.False(t, AllowedAvatarExt("me.jpg.exe"))
	assert.False(t, AllowedAvatarExt("avatar"))
}

func TestNormalizeAvatarProducesSquarePNG(t *testing.T) {
	// Non-square JPEG input; normalization must center-crop to 250x250 PNG.
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for x := 0; x < 400; x++ {
		for y := 0; y < 300; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var in bytes.Buffer
	require.NoError(t, imaging.Encode(&in, src, imaging.JPEG))

	out, err := NormalizeAvatar(in.Bytes())
	require.NoError(t, err)

	// PNG signature.
	require.True(t, bytes.HasPrefix(out, []byte{0x89, 'P', 'N', 'G'}))

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 250, bounds.Dx())
	assert.Equal(t, 250, bounds.Dy())
}

func TestNormalizeAvatarRejectsNonImage(t *testing.T) {
	_, err := NormalizeAvatar([]byte("definitely not an image"))
	assert.Error(t, err)
}
