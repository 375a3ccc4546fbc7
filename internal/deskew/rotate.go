// Package deskew corrects sheet skew estimated by the analyzer.
package deskew

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Rotate returns a copy of img rotated by degrees about its center. Positive angles turn
// the picture counter-clockwise on screen. The canvas keeps its size so that template
// percentages stay meaningful; uncovered pixels are white.
func Rotate(img image.Image, degrees float64) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)

	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	// Source to destination: x' = cx + (x-cx)cos + (y-cy)sin, y' = cy - (x-cx)sin + (y-cy)cos
	s2d := f64.Aff3{
		cos, sin, cx - cx*cos - cy*sin,
		-sin, cos, cy + cx*sin - cy*cos,
	}

	xdraw.BiLinear.Transform(dst, s2d, img, b, xdraw.Over, nil)
	return dst
}

// Correct undoes the skew described by res. Unaligned results and angles below
// minDegrees leave the image untouched; the second return value reports whether a
// rotation was applied.
func Correct(img image.Image, res domain.AlignmentResult, minDegrees float64) (image.Image, bool) {
	if !res.Aligned || math.Abs(res.AngleDegrees) < minDegrees {
		return img, false
	}
	return Rotate(img, -res.AngleDegrees), true
}
