// Package qrcode produces QR images for order payloads, either as a link to
// an external generator or rendered locally as PNG.
package qrcode

import (
	"fmt"
	"net/url"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultGeneratorURL = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultSize         = 512
)

// GeneratorURL builds the image URL of payload on an external generator
// service, e.g. .../create-qr-code/?data=...&size=512x512
func GeneratorURL(base string, size int, payload string) (string, error) {
	if base == "" {
		base = DefaultGeneratorURL
	}
	if size <= 0 {
		size = DefaultSize
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid generator url: %w", err)
	}
	q := u.Query()
	q.Set("size", fmt.Sprintf("%dx%d", size, size))
	q.Set("data", payload)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RenderPNG encodes payload as a size x size PNG
func RenderPNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(payload, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
