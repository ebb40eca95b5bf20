package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRendererDefaultsSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NewRenderer(0).Size())
	assert.Equal(t, DefaultSize, NewRenderer(-10).Size())
	assert.Equal(t, 128, NewRenderer(128).Size())
}

func TestRendererPNG(t *testing.T) {
	r := NewRenderer(256)

	img, err := r.PNG("https://gift.example/redeem/0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 256, decoded.Bounds().Dx())
	assert.Equal(t, 256, decoded.Bounds().Dy())
}

func TestRendererDataURL(t *testing.T) {
	r := NewRenderer(0)

	url, err := r.DataURL("https://gift.example/register")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, decoded.Bounds().Dx())
}

func TestRendererRejectsBadContent(t *testing.T) {
	r := NewRenderer(100)

	_, err := r.PNG("")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = r.DataURL(strings.Repeat("x", MaxContentLength+1))
	assert.ErrorIs(t, err, ErrContentTooLong)
}
