package recognizer

import (
	"image"

	"github.com/KwakOri/zuku-sub002/internal/analyzer"
	"github.com/KwakOri/zuku-sub002/internal/domain"
	"github.com/KwakOri/zuku-sub002/internal/template"
)

// MeasureBubbles computes the mean brightness of every template bubble on img,
// in template order.
func MeasureBubbles(img image.Image, tpl *template.OMRTemplate) []domain.BubbleScore {
	gray := analyzer.ToGrayscale(img)

	scores := make([]domain.BubbleScore, 0, len(tpl.Markers))
	for _, m := range tpl.Markers {
		rect := template.PixelRect(m.Region(), gray.Bounds())
		scores = append(scores, domain.BubbleScore{
			QuestionNumber: m.QuestionNumber,
			OptionNumber:   m.OptionNumber,
			Label:          m.OptionLabel(),
			Darkness:       meanBrightness(gray, rect),
		})
	}

	return scores
}

// meanBrightness averages gray over rect. An empty rect reads as white.
func meanBrightness(gray *image.Gray, rect image.Rectangle) float64 {
	rect = rect.Intersect(gray.Bounds())
	if rect.Empty() {
		return 255
	}

	var sum uint64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(rect.Min.X, y):gray.PixOffset(rect.Max.X, y)]
		for _, v := range row {
			sum += uint64(v)
		}
	}

	return float64(sum) / float64(rect.Dx()*rect.Dy())
}
