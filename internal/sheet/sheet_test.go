package sheet

import (
	"image/color"
	"testing"

	"github.com/KwakOri/zuku-sub002/internal/analyzer"
	"github.com/KwakOri/zuku-sub002/internal/template"
)

func twoQuestionTemplate() *template.OMRTemplate {
	return &template.OMRTemplate{
		TotalQuestions: 2,
		Markers: []template.OMRMarkerPosition{
			{QuestionNumber: 1, OptionNumber: 1, X: 20, Y: 20, Width: 4, Height: 3},
			{QuestionNumber: 1, OptionNumber: 2, X: 30, Y: 20, Width: 4, Height: 3},
			{QuestionNumber: 2, OptionNumber: 1, X: 20, Y: 30, Width: 4, Height: 3},
			{QuestionNumber: 2, OptionNumber: 2, X: 30, Y: 30, Width: 4, Height: 3},
		},
	}
}

func TestRenderDrawsMarks(t *testing.T) {
	opts := DefaultOptions()
	opts.Marks = map[int][]int{1: {2}}

	img, err := Render(twoQuestionTemplate(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if img.Bounds().Dx() != 850 || img.Bounds().Dy() != 1100 {
		t.Fatalf("Unexpected size %v", img.Bounds())
	}

	// center of question 1 option 2: x 30%+2%, y 20%+1.5%
	c := color.GrayModel.Convert(img.At(272, 236)).(color.Gray).Y
	if c != 0 {
		t.Errorf("Expected filled bubble, brightness %d", c)
	}
	c = color.GrayModel.Convert(img.At(187, 236)).(color.Gray).Y
	if c != 255 {
		t.Errorf("Expected empty bubble interior, brightness %d", c)
	}
}

func TestRenderReferenceMarkersAreDetectable(t *testing.T) {
	img, err := Render(twoQuestionTemplate(), DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	res, err := analyzer.NewMarkerAligner().Align(img)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if !res.Aligned || res.AngleDegrees != 0 {
		t.Errorf("Expected vertical markers, got %+v", res)
	}
}

func TestRenderWithoutMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.NoMarkers = true

	img, err := Render(twoQuestionTemplate(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	res, _ := analyzer.NewMarkerAligner().Align(img)
	if res.Aligned {
		t.Errorf("Expected no markers, got %+v", res)
	}
}

func TestRenderInvalidSize(t *testing.T) {
	if _, err := Render(twoQuestionTemplate(), Options{}); err == nil {
		t.Error("Expected error for zero size")
	}
}
