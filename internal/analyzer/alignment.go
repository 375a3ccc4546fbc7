package analyzer

import (
	"image"
	"math"
	"sort"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// EstimateAlignment picks the two largest blobs of region and measures how far the line
// through their centers deviates from vertical. Fewer than two blobs is not an error:
// the result simply reports Aligned=false.
func EstimateAlignment(blobs []domain.Blob, origin image.Point) domain.AlignmentResult {
	if len(blobs) < 2 {
		return domain.AlignmentResult{Markers: []domain.Marker{}}
	}

	sorted := make([]domain.Blob, len(blobs))
	copy(sorted, blobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area > sorted[j].Area
	})

	markers := []domain.Marker{
		{X: sorted[0].CenterX + float64(origin.X), Y: sorted[0].CenterY + float64(origin.Y)},
		{X: sorted[1].CenterX + float64(origin.X), Y: sorted[1].CenterY + float64(origin.Y)},
	}
	if markers[1].Y < markers[0].Y {
		markers[0], markers[1] = markers[1], markers[0]
	}

	dx := markers[1].X - markers[0].X
	dy := markers[1].Y - markers[0].Y

	return domain.AlignmentResult{
		Markers:      markers,
		AngleDegrees: math.Atan2(dx, dy) * 180 / math.Pi,
		Aligned:      true,
	}
}
