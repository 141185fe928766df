package qrcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const defaultSize = 300

// PNG renders content as a square QR code image.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr.Encode -> %w", err)
	}

	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("barcode.Scale -> %w", err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("png.Encode -> %w", err)
	}

	return buf.Bytes(), nil
}
