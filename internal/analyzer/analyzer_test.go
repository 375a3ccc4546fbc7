package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/KwakOri/zuku-sub002/internal/config"
	"github.com/KwakOri/zuku-sub002/internal/domain"
)

func whiteGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fillSquare(img *image.Gray, x, y, size int, v uint8) {
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			img.SetGray(xx, yy, color.Gray{Y: v})
		}
	}
}

func TestMarkerZone(t *testing.T) {
	zone := MarkerZone(image.Rect(0, 0, 1000, 1500), 0.10, 0.20)
	want := image.Rect(900, 1200, 1000, 1500)
	if zone != want {
		t.Errorf("MarkerZone = %v, want %v", zone, want)
	}
}

func TestExtractRegionBinarizes(t *testing.T) {
	img := whiteGray(10, 10)
	img.SetGray(5, 5, color.Gray{Y: 128})
	img.SetGray(6, 5, color.Gray{Y: 129})

	region, err := ExtractRegion(img, image.Rect(5, 5, 10, 10), 128)
	if err != nil {
		t.Fatalf("ExtractRegion failed: %v", err)
	}

	if region.Width() != 5 || region.Height() != 5 {
		t.Fatalf("Expected 5x5 region, got %dx%d", region.Width(), region.Height())
	}
	if !region.Foreground(0, 0) {
		t.Error("Brightness equal to threshold should be foreground")
	}
	if region.Foreground(1, 0) {
		t.Error("Brightness above threshold should be background")
	}
}

func TestExtractRegionOutsideImage(t *testing.T) {
	_, err := ExtractRegion(whiteGray(10, 10), image.Rect(20, 20, 30, 30), 128)
	if err == nil {
		t.Fatal("Expected error for empty region")
	}
}

func TestFindBlobs(t *testing.T) {
	img := whiteGray(60, 60)
	fillSquare(img, 5, 5, 10, 0)   // 100 px blob
	fillSquare(img, 30, 30, 12, 0) // 144 px blob
	fillSquare(img, 50, 5, 5, 0)   // 25 px noise

	// Diagonal neighbours are not connected: two 4px pieces touching at a corner
	fillSquare(img, 40, 50, 2, 0)
	fillSquare(img, 42, 52, 2, 0)

	region, err := ExtractRegion(img, img.Bounds(), 128)
	if err != nil {
		t.Fatalf("ExtractRegion failed: %v", err)
	}

	blobs := FindBlobs(region, 50)
	if len(blobs) != 2 {
		t.Fatalf("Expected 2 blobs, got %d: %+v", len(blobs), blobs)
	}

	first := blobs[0]
	if first.Area != 100 || first.Width != 10 || first.Height != 10 {
		t.Errorf("Unexpected first blob: %+v", first)
	}
	if first.CenterX != 9.5 || first.CenterY != 9.5 {
		t.Errorf("Expected bounding-box center (9.5, 9.5), got (%.1f, %.1f)", first.CenterX, first.CenterY)
	}

	all := FindBlobs(region, 1)
	if len(all) != 5 {
		t.Errorf("Expected 5 components with 4-connectivity, got %d", len(all))
	}
}

func TestFindBlobsLargeComponent(t *testing.T) {
	// A full-frame component must not blow the stack
	img := image.NewGray(image.Rect(0, 0, 800, 800))

	region, err := ExtractRegion(img, img.Bounds(), 128)
	if err != nil {
		t.Fatalf("ExtractRegion failed: %v", err)
	}

	blobs := FindBlobs(region, 50)
	if len(blobs) != 1 || blobs[0].Area != 800*800 {
		t.Fatalf("Expected one 640000 px blob, got %+v", blobs)
	}
}

func TestEstimateAlignmentAngle(t *testing.T) {
	tests := []struct {
		name           string
		topX, topY     int
		bottomX, botY  int
		wantAngleDeg   float64
		wantTopMarkerY float64
	}{
		{"vertical", 40, 20, 40, 140, 0, 20 + 7.5},
		{"leaning right", 30, 20, 50, 140, math.Atan2(20, 120) * 180 / math.Pi, 20 + 7.5},
		{"leaning left", 60, 20, 44, 130, math.Atan2(-16, 110) * 180 / math.Pi, 20 + 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := whiteGray(100, 200)
			fillSquare(img, tt.bottomX, tt.botY, 16, 0)
			fillSquare(img, tt.topX, tt.topY, 16, 0)

			region, err := ExtractRegion(img, img.Bounds(), 128)
			if err != nil {
				t.Fatalf("ExtractRegion failed: %v", err)
			}

			origin := image.Pt(900, 800)
			res := EstimateAlignment(FindBlobs(region, 50), origin)

			if !res.Aligned {
				t.Fatal("Expected alignment")
			}
			if math.Abs(res.AngleDegrees-tt.wantAngleDeg) > 0.5 {
				t.Errorf("Angle = %.3f, want %.3f", res.AngleDegrees, tt.wantAngleDeg)
			}
			if res.Markers[0].Y > res.Markers[1].Y {
				t.Errorf("Markers not ordered top first: %+v", res.Markers)
			}
			if res.Markers[0].Y != tt.wantTopMarkerY+800 {
				t.Errorf("Top marker Y = %.1f, want absolute %.1f", res.Markers[0].Y, tt.wantTopMarkerY+800)
			}
		})
	}
}

func TestEstimateAlignmentPicksLargest(t *testing.T) {
	blobs := []domain.Blob{
		{CenterX: 10, CenterY: 100, Area: 400},
		{CenterX: 90, CenterY: 50, Area: 60},
		{CenterX: 10, CenterY: 10, Area: 500},
	}

	res := EstimateAlignment(blobs, image.Point{})
	if !res.Aligned || res.AngleDegrees != 0 {
		t.Fatalf("Expected vertical alignment of the two largest blobs, got %+v", res)
	}
	if res.Markers[0].Y != 10 || res.Markers[1].Y != 100 {
		t.Errorf("Unexpected markers: %+v", res.Markers)
	}
}

func TestEstimateAlignmentInsufficientBlobs(t *testing.T) {
	for _, n := range []int{0, 1} {
		img := whiteGray(100, 200)
		if n == 1 {
			fillSquare(img, 40, 40, 20, 0)
		}
		fillSquare(img, 10, 150, 4, 0) // below min area

		region, err := ExtractRegion(img, img.Bounds(), 128)
		if err != nil {
			t.Fatalf("ExtractRegion failed: %v", err)
		}

		res := EstimateAlignment(FindBlobs(region, 50), image.Point{})
		if res.Aligned || res.AngleDegrees != 0 || len(res.Markers) != 0 {
			t.Errorf("%d blobs: expected unaligned zero result, got %+v", n, res)
		}
	}
}

func TestMarkerAligner(t *testing.T) {
	img := whiteGray(1000, 1000)
	fillSquare(img, 940, 840, 20, 0)
	fillSquare(img, 940, 940, 20, 0)
	fillSquare(img, 100, 100, 40, 0) // outside the zone

	res, err := NewMarkerAligner().Align(img)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if !res.Aligned || math.Abs(res.AngleDegrees) > 1e-9 {
		t.Fatalf("Expected aligned at 0 degrees, got %+v", res)
	}
	if res.Markers[0].X != 949.5 || res.Markers[0].Y != 849.5 {
		t.Errorf("Expected absolute top marker (949.5, 849.5), got %+v", res.Markers[0])
	}
}

func TestAlignerRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"markers", false},
		{"", false}, // default
		{"none", false},
		{"hough", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			cfg := config.Default()
			cfg.Aligner = tt.variant
			aligner, err := NewAligner(cfg)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if aligner == nil {
				t.Error("Expected aligner, got nil")
			}
		})
	}
}
