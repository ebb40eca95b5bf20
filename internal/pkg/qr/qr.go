// Package qr renders QR codes as PNG images and data URLs.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// MaxContentLength caps the encoded payload well below the QR version 40 limit.
const MaxContentLength = 2048

const DefaultSize = 300

var (
	ErrEmptyContent   = errors.New("qr content is empty")
	ErrContentTooLong = errors.New("qr content is too long")
)

// Renderer produces square black-on-white QR images of a fixed pixel size.
type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewRenderer returns a Renderer producing images of size pixels.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size, level: qrcode.Medium}
}

// Size reports the configured image size in pixels.
func (r *Renderer) Size() int {
	return r.size
}

// PNG encodes content into a PNG image.
func (r *Renderer) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	code, err := qrcode.New(content, r.level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.ForegroundColor = color.Black
	code.BackgroundColor = color.White

	img, err := code.PNG(r.size)
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}
	return img, nil
}

// DataURL encodes content and returns it as a data:image/png;base64 URL.
func (r *Renderer) DataURL(content string) (string, error) {
	img, err := r.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}
