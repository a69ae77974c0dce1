package orderqr

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"giftyy-backend/internal/qrcode"
)

// ImageSource turns a QR payload into the image URL stored on the records
type ImageSource interface {
	ImageURL(ctx context.Context, orderID, payload string) (string, error)
}

// GeneratorImages points at an external QR generator, nothing is rendered
type GeneratorImages struct {
	BaseURL string
	Size    int
}

func (g GeneratorImages) ImageURL(_ context.Context, _ string, payload string) (string, error) {
	return qrcode.GeneratorURL(g.BaseURL, g.Size, payload)
}

type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	ObjectURL(key string) string
}

// StoredImages renders the PNG locally and keeps it in object storage under
// a key derived from the order, so regenerating replaces the same object.
type StoredImages struct {
	Storage Uploader
	Size    int
}

func (s StoredImages) ImageURL(ctx context.Context, orderID, payload string) (string, error) {
	png, err := qrcode.RenderPNG(payload, s.Size)
	if err != nil {
		return "", err
	}
	key, err := s.Storage.Upload(ctx, fmt.Sprintf("qr/%s.png", orderID),
		bytes.NewReader(png), int64(len(png)), "image/png")
	if err != nil {
		return "", err
	}
	return s.Storage.ObjectURL(key), nil
}
