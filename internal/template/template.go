// Package template holds the resolution-independent answer sheet layout.
//
// Every rectangle is expressed in percent (0-100) of the image dimensions, so one
// template serves scans of any resolution as long as the aspect ratio is kept.
package template

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalidTemplate = errors.New("invalid template")

// ValidationError pinpoints the template entry that broke an invariant.
type ValidationError struct {
	Question int
	Option   int
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Question == 0:
		return fmt.Sprintf("invalid template: %s", e.Reason)
	case e.Option == 0:
		return fmt.Sprintf("invalid template: question %d: %s", e.Question, e.Reason)
	case e.Field == "":
		return fmt.Sprintf("invalid template: question %d option %d: %s", e.Question, e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid template: question %d option %d: %s %s", e.Question, e.Option, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// Region is a percentage rectangle.
type Region struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// OMRMarkerPosition locates one answer bubble.
type OMRMarkerPosition struct {
	QuestionNumber int     `yaml:"questionNumber" json:"questionNumber"`
	OptionNumber   int     `yaml:"optionNumber" json:"optionNumber"`
	Label          string  `yaml:"label,omitempty" json:"label,omitempty"`
	X              float64 `yaml:"x" json:"x"`
	Y              float64 `yaml:"y" json:"y"`
	Width          float64 `yaml:"width" json:"width"`
	Height         float64 `yaml:"height" json:"height"`
}

// OptionLabel is the label recorded as the answer, the option number unless overridden.
func (m OMRMarkerPosition) OptionLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return strconv.Itoa(m.OptionNumber)
}

func (m OMRMarkerPosition) Region() Region {
	return Region{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

type OMRTemplate struct {
	TotalQuestions int                 `yaml:"totalQuestions" json:"totalQuestions"`
	Markers        []OMRMarkerPosition `yaml:"markers" json:"markers"`
	SheetID        *Region             `yaml:"sheetId,omitempty" json:"sheetId,omitempty"`
}

// Parse decodes a YAML or JSON template and validates it.
func Parse(data []byte) (*OMRTemplate, error) {
	var t OMRTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads and parses a template file.
func Load(path string) (*OMRTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate checks that every question 1..TotalQuestions has at least two distinct
// options and that all rectangles lie within 0..100.
func (t *OMRTemplate) Validate() error {
	if t.TotalQuestions <= 0 {
		return &ValidationError{Reason: fmt.Sprintf("totalQuestions must be positive, got %d", t.TotalQuestions)}
	}

	options := make(map[int]map[int]bool, t.TotalQuestions)
	for _, m := range t.Markers {
		if m.QuestionNumber < 1 || m.QuestionNumber > t.TotalQuestions {
			return &ValidationError{
				Question: m.QuestionNumber,
				Option:   m.OptionNumber,
				Reason:   fmt.Sprintf("question number outside 1..%d", t.TotalQuestions),
			}
		}
		if m.OptionNumber < 1 {
			return &ValidationError{Question: m.QuestionNumber, Reason: fmt.Sprintf("option number %d must be positive", m.OptionNumber)}
		}
		if err := checkRegion(m.Region()); err != nil {
			err.Question, err.Option = m.QuestionNumber, m.OptionNumber
			return err
		}

		if options[m.QuestionNumber] == nil {
			options[m.QuestionNumber] = make(map[int]bool)
		}
		if options[m.QuestionNumber][m.OptionNumber] {
			return &ValidationError{Question: m.QuestionNumber, Option: m.OptionNumber, Reason: "duplicate option"}
		}
		options[m.QuestionNumber][m.OptionNumber] = true
	}

	for q := 1; q <= t.TotalQuestions; q++ {
		if n := len(options[q]); n < 2 {
			return &ValidationError{Question: q, Reason: fmt.Sprintf("needs at least 2 options, has %d", n)}
		}
	}

	if t.SheetID != nil {
		if err := checkRegion(*t.SheetID); err != nil {
			err.Reason = "sheetId " + err.Field + " " + err.Reason
			err.Field = ""
			return err
		}
	}

	return nil
}

func checkRegion(r Region) *ValidationError {
	fields := []struct {
		name string
		val  float64
	}{
		{"x", r.X}, {"y", r.Y}, {"width", r.Width}, {"height", r.Height},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || f.val < 0 || f.val > 100 {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("%v outside [0,100]", f.val)}
		}
	}
	if r.Width == 0 || r.Height == 0 {
		return &ValidationError{Field: "size", Reason: "must be non-zero"}
	}
	return nil
}

// Questions groups markers by question number, in ascending order of question and option.
func (t *OMRTemplate) Questions() map[int][]OMRMarkerPosition {
	grouped := make(map[int][]OMRMarkerPosition)
	for _, m := range t.Markers {
		grouped[m.QuestionNumber] = append(grouped[m.QuestionNumber], m)
	}
	for q := range grouped {
		opts := grouped[q]
		sort.Slice(opts, func(i, j int) bool { return opts[i].OptionNumber < opts[j].OptionNumber })
	}
	return grouped
}

// PixelRect maps a percentage region onto an image of the given bounds.
// Coordinates are rounded and clamped; the result always covers at least one pixel
// of a non-empty image.
func PixelRect(r Region, bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}

	px, py := toPixel(r.X, w), toPixel(r.Y, h)
	pw, ph := toPixel(r.Width, w), toPixel(r.Height, h)

	x0 := clamp(px, 0, w-1)
	y0 := clamp(py, 0, h-1)
	x1 := clamp(px+pw, x0+1, w)
	y1 := clamp(py+ph, y0+1, h)

	return image.Rect(x0, y0, x1, y1).Add(bounds.Min)
}

func toPixel(percent float64, dim int) int {
	return int(math.Round(percent / 100 * float64(dim)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
