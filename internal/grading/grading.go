// Package grading scores recognized answers against an answer key.
package grading

import (
	"math"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Grade compares answers with key for questions 1..totalQuestions.
// A question absent from answers counts as unanswered.
func Grade(fileName string, answers map[int]string, key domain.AnswerKey, totalQuestions int) domain.GradingResult {
	res := domain.GradingResult{
		FileName:       fileName,
		TotalQuestions: totalQuestions,
		Details:        make([]domain.GradingDetail, 0, max(totalQuestions, 0)),
	}

	for q := 1; q <= totalQuestions; q++ {
		detail := domain.GradingDetail{
			QuestionNumber: q,
			CorrectAnswer:  key[q],
		}

		if given, ok := answers[q]; ok {
			answer := given
			detail.StudentAnswer = &answer
			_, keyed := key[q]
			detail.IsCorrect = keyed && answer == key[q]

			if detail.IsCorrect {
				res.CorrectCount++
			} else {
				res.WrongCount++
			}
		} else {
			res.UnansweredCount++
		}

		res.Details = append(res.Details, detail)
	}

	if totalQuestions > 0 {
		res.Score = int(math.Round(float64(res.CorrectCount) / float64(totalQuestions) * 100))
	}

	return res
}

// GradeAll grades every result in order.
func GradeAll(results []domain.ProcessResult, key domain.AnswerKey, totalQuestions int) []domain.GradingResult {
	graded := make([]domain.GradingResult, 0, len(results))
	for _, r := range results {
		graded = append(graded, Grade(r.FileName, r.Answers, key, totalQuestions))
	}
	return graded
}
