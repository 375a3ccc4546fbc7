package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KwakOri/zuku-sub002/internal/analyzer"
	"github.com/KwakOri/zuku-sub002/internal/config"
	"github.com/KwakOri/zuku-sub002/internal/deskew"
	"github.com/KwakOri/zuku-sub002/internal/domain"
	"github.com/KwakOri/zuku-sub002/internal/grading"
	"github.com/KwakOri/zuku-sub002/internal/recognizer"
	"github.com/KwakOri/zuku-sub002/internal/sheetid"
	"github.com/KwakOri/zuku-sub002/internal/system"
	"github.com/KwakOri/zuku-sub002/internal/template"
)

// Engine runs the recognition pipeline. It holds no mutable state, so one Engine
// may serve concurrent callers.
type Engine struct {
	Config  config.Config
	Aligner analyzer.Aligner
	Log     zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aligner, err := analyzer.NewAligner(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	return &Engine{
		Config:  cfg,
		Aligner: aligner,
		Log:     log,
	}, nil
}

// Process aligns and recognizes a single sheet.
func (e *Engine) Process(sheet domain.Sheet, tpl *template.OMRTemplate) (domain.ProcessResult, error) {
	if err := tpl.Validate(); err != nil {
		return domain.ProcessResult{}, err
	}
	return e.process(sheet, tpl)
}

func (e *Engine) process(sheet domain.Sheet, tpl *template.OMRTemplate) (domain.ProcessResult, error) {
	log := e.Log.With().Str("file", sheet.Name).Logger()

	img, err := decodeSheet(sheet.Data)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	alignment, err := e.Aligner.Align(img)
	if err != nil {
		return domain.ProcessResult{}, fmt.Errorf("align: %w", err)
	}
	if !alignment.Aligned {
		log.Info().Msg("reference markers not found, recognizing unaligned")
	}

	aligned, rotated := deskew.Correct(img, alignment, e.Config.MinRotationDegrees)
	if rotated {
		log.Debug().Float64("angle", alignment.AngleDegrees).Msg("sheet deskewed")
	}

	scores := recognizer.MeasureBubbles(aligned, tpl)
	th := recognizer.Thresholds{Marking: e.Config.MarkingThreshold, Difference: e.Config.DifferenceThreshold}
	answers := recognizer.Decide(scores, tpl.TotalQuestions, th, log)

	encoded, err := encodeDebugImage(aligned, e.Config)
	if err != nil {
		return domain.ProcessResult{}, fmt.Errorf("encode aligned image: %w", err)
	}

	res := domain.ProcessResult{
		FileName:           sheet.Name,
		Answers:            answers,
		AlignedImageBase64: encoded,
		DetectedAngle:      alignment.AngleDegrees,
		AlignmentSuccess:   alignment.Aligned,
		Alignment:          alignment,
		Scores:             scores,
	}

	if tpl.SheetID != nil {
		id, err := sheetid.Decode(aligned, *tpl.SheetID)
		if err != nil {
			log.Debug().Err(err).Msg("sheet id not decoded")
		}
		res.SheetID = id
	}

	log.Debug().Int("answered", len(answers)).Int("questions", tpl.TotalQuestions).Msg("sheet recognized")
	return res, nil
}

// ProcessBatch processes sheets in parallel, up to Config.Workers at a time.
// The template is validated once up front; an invalid template fails the batch.
// A failing sheet is reported in BatchResult.Errors and does not stop the others.
// Cancellation is checked before each sheet starts.
func (e *Engine) ProcessBatch(ctx context.Context, sheets []domain.Sheet, tpl *template.OMRTemplate) (*domain.BatchResult, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	workers := e.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}

	results := make([]domain.ProcessResult, len(sheets))
	failures := make([]error, len(sheets))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i := range sheets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], failures[i] = e.safeProcess(sheets[i], tpl)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &domain.BatchResult{
		Results: make([]domain.ProcessResult, 0, len(sheets)),
		Errors:  []domain.FileError{},
	}
	for i := range sheets {
		if failures[i] != nil {
			e.Log.Warn().Str("file", sheets[i].Name).Err(failures[i]).Msg("sheet failed")
			batch.Errors = append(batch.Errors, domain.FileError{FileName: sheets[i].Name, Err: failures[i]})
			continue
		}
		batch.Results = append(batch.Results, results[i])
	}

	e.Log.Info().
		Int("sheets", len(sheets)).
		Int("failed", len(batch.Errors)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("batch processed")

	return batch, nil
}

// safeProcess keeps a panic in one sheet from taking down the batch.
func (e *Engine) safeProcess(sheet domain.Sheet, tpl *template.OMRTemplate) (res domain.ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSheetPanic, r)
		}
	}()
	return e.process(sheet, tpl)
}

// Grade scores processed sheets against key, preserving order.
func (e *Engine) Grade(results []domain.ProcessResult, key domain.AnswerKey, totalQuestions int) []domain.GradingResult {
	return grading.GradeAll(results, key, totalQuestions)
}
