// Package sheet renders synthetic answer sheets from a template: reference markers,
// bubble outlines, filled answers and an optional QR identifier.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/KwakOri/zuku-sub002/internal/analyzer"
	"github.com/KwakOri/zuku-sub002/internal/deskew"
	"github.com/KwakOri/zuku-sub002/internal/template"
)

type Options struct {
	Width, Height int
	Marks         map[int][]int // question -> filled option numbers
	SheetID       string        // printed as QR when the template has a sheetId region
	SkewDegrees   float64       // applied after drawing, see deskew.Rotate
	ZoneWidth     float64       // marker zone, fraction of width
	ZoneHeight    float64       // marker zone, fraction of height
	NoMarkers     bool
}

// DefaultOptions is an A4-like portrait page at roughly 100 dpi.
func DefaultOptions() Options {
	return Options{
		Width:      850,
		Height:     1100,
		Marks:      map[int][]int{},
		ZoneWidth:  0.10,
		ZoneHeight: 0.20,
	}
}

var (
	ink     = color.Gray{Y: 0}
	outline = color.Gray{Y: 140}
)

// Render draws the sheet described by tpl and opts.
func Render(tpl *template.OMRTemplate, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid sheet size %dx%d", opts.Width, opts.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	filled := make(map[[2]int]bool)
	for q, options := range opts.Marks {
		for _, o := range options {
			filled[[2]int{q, o}] = true
		}
	}

	for _, m := range tpl.Markers {
		rect := template.PixelRect(m.Region(), img.Bounds())
		if filled[[2]int{m.QuestionNumber, m.OptionNumber}] {
			fillRect(img, rect, ink)
		} else {
			strokeRect(img, rect, outline)
		}
	}

	if !opts.NoMarkers {
		drawReferenceMarkers(img, opts.ZoneWidth, opts.ZoneHeight)
	}

	if opts.SheetID != "" && tpl.SheetID != nil {
		if err := drawQR(img, *tpl.SheetID, opts.SheetID); err != nil {
			return nil, err
		}
	}

	if opts.SkewDegrees != 0 {
		img = deskew.Rotate(img, opts.SkewDegrees)
	}

	return img, nil
}

// drawReferenceMarkers places two solid squares on the vertical center line of the
// marker zone, at 30% and 75% of its height.
func drawReferenceMarkers(img *image.RGBA, zoneW, zoneH float64) {
	zone := analyzer.MarkerZone(img.Bounds(), zoneW, zoneH)

	size := zone.Dx() * 3 / 10
	if size < 8 {
		size = 8
	}
	cx := zone.Min.X + zone.Dx()/2
	for _, frac := range []float64{0.30, 0.75} {
		cy := zone.Min.Y + int(float64(zone.Dy())*frac)
		fillRect(img, image.Rect(cx-size/2, cy-size/2, cx+size/2, cy+size/2), ink)
	}
}

func drawQR(img *image.RGBA, region template.Region, content string) error {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode sheet id: %w", err)
	}

	rect := template.PixelRect(region, img.Bounds())
	side := min(rect.Dx(), rect.Dy())
	code := q.Image(side)

	dst := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+side, rect.Min.Y+side)
	xdraw.NearestNeighbor.Scale(img, dst, code, code.Bounds(), xdraw.Src, nil)
	return nil
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}
