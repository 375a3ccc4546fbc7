package analyzer

import (
	"fmt"

	"github.com/KwakOri/zuku-sub002/internal/config"
)

// NewAligner creates an aligner based on the configured variant
func NewAligner(cfg config.Config) (Aligner, error) {
	switch cfg.Aligner {
	case "markers", "":
		return &MarkerAligner{
			ZoneWidth:         cfg.MarkerZoneWidth,
			ZoneHeight:        cfg.MarkerZoneHeight,
			BinarizeThreshold: cfg.BinarizeThreshold,
			MinBlobArea:       cfg.MinBlobArea,
		}, nil
	case "none":
		return NopAligner{}, nil
	default:
		return nil, fmt.Errorf("unknown aligner variant: %s", cfg.Aligner)
	}
}
