package analyzer

import (
	"image"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Aligner estimates sheet skew from an image
type Aligner interface {
	Align(img image.Image) (domain.AlignmentResult, error)
}

// MarkerAligner looks for two reference markers in the bottom-right zone of the sheet.
type MarkerAligner struct {
	ZoneWidth         float64 // fraction of image width
	ZoneHeight        float64 // fraction of image height
	BinarizeThreshold uint8
	MinBlobArea       int
}

// NewMarkerAligner creates an aligner with the default zone and thresholds
func NewMarkerAligner() *MarkerAligner {
	return &MarkerAligner{
		ZoneWidth:         0.10,
		ZoneHeight:        0.20,
		BinarizeThreshold: 128,
		MinBlobArea:       50,
	}
}

func (a *MarkerAligner) Align(img image.Image) (domain.AlignmentResult, error) {
	zone := MarkerZone(img.Bounds(), a.ZoneWidth, a.ZoneHeight)

	region, err := ExtractRegion(img, zone, a.BinarizeThreshold)
	if err != nil {
		return domain.AlignmentResult{}, err
	}

	blobs := FindBlobs(region, a.MinBlobArea)
	return EstimateAlignment(blobs, region.Rect.Min), nil
}

// NopAligner never detects skew.
type NopAligner struct{}

func (NopAligner) Align(image.Image) (domain.AlignmentResult, error) {
	return domain.AlignmentResult{Markers: []domain.Marker{}}, nil
}
