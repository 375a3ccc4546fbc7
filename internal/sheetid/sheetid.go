// Package sheetid reads the QR identifier printed on an answer sheet.
package sheetid

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/KwakOri/zuku-sub002/internal/template"
)

var ErrNotFound = errors.New("sheet id not found")

// Decode crops region out of img and decodes the QR code inside it.
func Decode(img image.Image, region template.Region) (string, error) {
	rect := template.PixelRect(region, img.Bounds())
	if rect.Empty() {
		return "", ErrNotFound
	}

	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), img, rect.Min, draw.Src)

	bmp, err := gozxing.NewBinaryBitmapFromImage(crop)
	if err != nil {
		return "", fmt.Errorf("binarize sheet id region: %w", err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return result.GetText(), nil
}
