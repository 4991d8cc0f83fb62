package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeImage(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func TestValidateAvatarUpload(t *testing.T) {
	assert.NoError(t, ValidateAvatarUpload("me.png", 1024))
	assert.NoError(t, ValidateAvatarUpload("me.JPG", 1024))
	assert.NoError(t, ValidateAvatarUpload("profile-pic.jpeg", MaxAvatarBytes))

	assert.ErrorIs(t, ValidateAvatarUpload("me.gif", 1024), ErrAvatarExt)
	assert.ErrorIs(t, ValidateAvatarUpload("me", 1024), ErrAvatarExt)
	assert.ErrorIs(t, ValidateAvatarUpload("me.png", MaxAvatarBytes+1), ErrAvatarTooLarge)
}

func TestNormalizeAvatar(t *testing.T) {
	raw := encodeImage(t, 600, 400, func(b *bytes.Buffer, img image.Image) error {
		return png.Encode(b, img)
	})
	out, err := NormalizeAvatar(raw)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())
}

func TestNormalizeAvatarAcceptsJPEG(t *testing.T) {
	raw := encodeImage(t, 300, 300, func(b *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(b, img, nil)
	})
	out, err := NormalizeAvatar(raw)
	require.NoError(t, err)

	// Output is always PNG regardless of the input format.
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
}

func TestNormalizeAvatarRejectsGarbage(t *testing.T) {
	_, err := NormalizeAvatar([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrAvatarDecode)
}
