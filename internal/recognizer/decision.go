package recognizer

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Thresholds of the mark decision rule
type Thresholds struct {
	Marking    float64 // darkest bubble must be strictly below
	Difference float64 // second darkest must be lighter by strictly more
}

func DefaultThresholds() Thresholds {
	return Thresholds{Marking: 180, Difference: 30}
}

// Verdict is the outcome for one question.
type Verdict int

const (
	Unanswered Verdict = iota
	Marked
	Undecidable // fewer than two options
)

// DecideQuestion applies the threshold rule to one question's scores. Scores are
// ordered darkest first, ties broken by ascending option number.
func DecideQuestion(scores []domain.BubbleScore, th Thresholds) (string, Verdict) {
	if len(scores) < 2 {
		return "", Undecidable
	}

	sorted := make([]domain.BubbleScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Darkness != sorted[j].Darkness {
			return sorted[i].Darkness < sorted[j].Darkness
		}
		return sorted[i].OptionNumber < sorted[j].OptionNumber
	})

	darkest, second := sorted[0], sorted[1]
	if darkest.Darkness < th.Marking && second.Darkness-darkest.Darkness > th.Difference {
		return darkest.Label, Marked
	}

	return "", Unanswered
}

// Decide groups scores by question and returns the confidently marked answers.
// Questions without a confident mark are absent from the map. Questions with fewer
// than two options are skipped and logged.
func Decide(scores []domain.BubbleScore, totalQuestions int, th Thresholds, log zerolog.Logger) map[int]string {
	byQuestion := make(map[int][]domain.BubbleScore)
	for _, s := range scores {
		byQuestion[s.QuestionNumber] = append(byQuestion[s.QuestionNumber], s)
	}

	answers := make(map[int]string)
	for q := 1; q <= totalQuestions; q++ {
		label, verdict := DecideQuestion(byQuestion[q], th)
		switch verdict {
		case Marked:
			answers[q] = label
		case Undecidable:
			log.Warn().Int("question", q).Int("options", len(byQuestion[q])).Msg("question skipped: needs at least 2 options")
		}
	}

	return answers
}
