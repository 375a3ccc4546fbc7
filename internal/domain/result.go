package domain

import "fmt"

// Sheet is one scanned answer sheet as handed to the engine.
type Sheet struct {
	Name string
	Data []byte
}

// AnswerKey maps question number to the expected option label.
type AnswerKey map[int]string

// Blob is a 4-connected group of foreground pixels in region-local coordinates.
// The center is the bounding-box midpoint, not the pixel-mass centroid.
type Blob struct {
	CenterX float64
	CenterY float64
	Width   int
	Height  int
	Area    int
}

// Marker is a reference marker center in absolute image coordinates
type Marker struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// AlignmentResult describes the skew estimated from the two reference markers.
// When Aligned is false, Markers is empty and AngleDegrees is 0.
type AlignmentResult struct {
	Markers      []Marker `json:"markers" yaml:"markers"` // top marker first
	AngleDegrees float64  `json:"angleDegrees" yaml:"angleDegrees"`
	Aligned      bool     `json:"aligned" yaml:"aligned"`
}

// BubbleScore is the mean brightness (0 black, 255 white) of one template bubble.
type BubbleScore struct {
	QuestionNumber int     `json:"questionNumber" yaml:"questionNumber"`
	OptionNumber   int     `json:"optionNumber" yaml:"optionNumber"`
	Label          string  `json:"label" yaml:"label"`
	Darkness       float64 `json:"darkness" yaml:"darkness"`
}

// ProcessResult is the recognition outcome for a single sheet.
// A question missing from Answers had no confident mark.
type ProcessResult struct {
	FileName           string          `json:"fileName" yaml:"fileName"`
	Answers            map[int]string  `json:"answers" yaml:"answers"`
	AlignedImageBase64 string          `json:"alignedImageBase64,omitempty" yaml:"-"`
	DetectedAngle      float64         `json:"detectedAngle" yaml:"detectedAngle"`
	AlignmentSuccess   bool            `json:"alignmentSuccess" yaml:"alignmentSuccess"`
	Alignment          AlignmentResult `json:"alignment" yaml:"alignment"`
	Scores             []BubbleScore   `json:"scores,omitempty" yaml:"-"`
	SheetID            string          `json:"sheetId,omitempty" yaml:"sheetId,omitempty"`
}

// FileError records why one sheet of a batch could not be processed.
type FileError struct {
	FileName string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FileName, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// BatchResult keeps successes and failures, each in input order.
type BatchResult struct {
	Results []ProcessResult
	Errors  []FileError
}

// GradingDetail is the verdict for one question. StudentAnswer is nil when unanswered.
type GradingDetail struct {
	QuestionNumber int     `json:"questionNumber" yaml:"questionNumber"`
	StudentAnswer  *string `json:"studentAnswer" yaml:"studentAnswer"`
	CorrectAnswer  string  `json:"correctAnswer" yaml:"correctAnswer"`
	IsCorrect      bool    `json:"isCorrect" yaml:"isCorrect"`
}

// GradingResult aggregates the grading of one sheet.
type GradingResult struct {
	FileName        string          `json:"fileName" yaml:"fileName"`
	Score           int             `json:"score" yaml:"score"`
	CorrectCount    int             `json:"correctCount" yaml:"correctCount"`
	WrongCount      int             `json:"wrongCount" yaml:"wrongCount"`
	UnansweredCount int             `json:"unansweredCount" yaml:"unansweredCount"`
	TotalQuestions  int             `json:"totalQuestions" yaml:"totalQuestions"`
	Details         []GradingDetail `json:"details" yaml:"details"`
}
