package analyzer

import (
	"errors"
	"image"
	"image/color"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Region is a binarized crop of the source image. Pix holds 0 for foreground
// and 255 for background, row-major, Stride == Rect.Dx().
type Region struct {
	Rect image.Rectangle // in absolute image coordinates
	Pix  []uint8
}

func (r *Region) Width() int  { return r.Rect.Dx() }
func (r *Region) Height() int { return r.Rect.Dy() }

// Foreground reports whether the region-local pixel (x, y) is ink.
func (r *Region) Foreground(x, y int) bool {
	return r.Pix[y*r.Rect.Dx()+x] == 0
}

// MarkerZone returns the bottom-right rectangle expected to hold the reference markers.
func MarkerZone(bounds image.Rectangle, widthFrac, heightFrac float64) image.Rectangle {
	zw := int(float64(bounds.Dx()) * widthFrac)
	zh := int(float64(bounds.Dy()) * heightFrac)
	if zw < 1 {
		zw = 1
	}
	if zh < 1 {
		zh = 1
	}
	return image.Rect(bounds.Max.X-zw, bounds.Max.Y-zh, bounds.Max.X, bounds.Max.Y)
}

// ExtractRegion crops rect out of img, converts it to grayscale and binarizes it:
// pixels whose brightness is <= threshold become foreground.
func ExtractRegion(img image.Image, rect image.Rectangle, threshold uint8) (*Region, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyImage
	}

	region := &Region{
		Rect: rect,
		Pix:  make([]uint8, rect.Dx()*rect.Dy()),
	}

	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if grayAt(img, x, y) <= threshold {
				region.Pix[i] = 0
			} else {
				region.Pix[i] = 255
			}
			i++
		}
	}

	return region, nil
}

// ToGrayscale converts an image to grayscale. A *image.Gray is returned as is;
// callers must treat the result as read-only.
func ToGrayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.SetGray(x, y, color.Gray{Y: grayAt(img, x, y)})
		}
	}

	return gray
}

func grayAt(img image.Image, x, y int) uint8 {
	switch src := img.(type) {
	case *image.Gray:
		return src.GrayAt(x, y).Y
	case *image.RGBA:
		// Fast path for decoded PNGs and rotated sheets
		return color.GrayModel.Convert(src.RGBAAt(x, y)).(color.Gray).Y
	}
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}
