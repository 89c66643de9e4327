// Package render turns a document into its visual artifacts: QR and barcode
// PNGs and the downloadable PDF.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	qrcode "github.com/skip2/go-qrcode"
)

// QRCodePNG encodes an opaque payload as a QR image. The payload content is
// owned by the fbr package; this layer only rasterizes it.
func QRCodePNG(payload string, size int) ([]byte, error) {
	data, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return data, nil
}

// BarcodePNG encodes a value as a Code 128 barcode image.
func BarcodePNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}

	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	// The scaled barcode keeps the encoder's 16-bit color model and would
	// encode as a 16-bit PNG, which the PDF embedder rejects. Redraw into an
	// 8-bit grayscale image before encoding.
	img := image.NewGray(scaled.Bounds())
	draw.Draw(img, img.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode barcode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
