package engine

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/KwakOri/zuku-sub002/internal/config"
)

// decodeSheet reads the header first so a corrupt header is reported as a
// metadata error rather than a generic decode failure.
func decodeSheet(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty sheet data", ErrImageMetadata)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageMetadata, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageMetadata, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// encodeDebugImage re-encodes the aligned sheet for the external review viewer.
func encodeDebugImage(img image.Image, cfg config.Config) (string, error) {
	var buf bytes.Buffer

	switch cfg.DebugImageFormat {
	case config.FormatNone:
		return "", nil
	case config.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cfg.JPEGQuality}); err != nil {
			return "", err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return "", err
		}
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
