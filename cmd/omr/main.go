package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/KwakOri/zuku-sub002/internal/config"
	"github.com/KwakOri/zuku-sub002/internal/domain"
	"github.com/KwakOri/zuku-sub002/internal/engine"
	"github.com/KwakOri/zuku-sub002/internal/grading"
	"github.com/KwakOri/zuku-sub002/internal/report"
	"github.com/KwakOri/zuku-sub002/internal/sheet"
	"github.com/KwakOri/zuku-sub002/internal/source"
	"github.com/KwakOri/zuku-sub002/internal/template"
)

func main() {
	templatePtr := flag.String("template", "", "Path to the sheet template (YAML or JSON)")
	inputPtr := flag.String("input", "", "Scanned sheet: image file, directory of images or PDF")
	keyPtr := flag.String("key", "", "Answer key (YAML or JSON); grades the batch when set")
	configPtr := flag.String("config", "", "YAML file overriding recognition thresholds")
	outputPtr := flag.String("output", "", "Report path (.yaml or .json); generated in output/ when empty")
	workersPtr := flag.Int("workers", 0, "Parallel sheets (0 - sized from CPU and memory)")
	dpiPtr := flag.Int("dpi", 150, "Render DPI for PDF input")
	debugPtr := flag.String("debug-image", "", "Aligned image in the report: png, jpeg, none")
	verbosePtr := flag.Bool("v", false, "Debug logging")

	generatePtr := flag.String("generate", "", "Render a synthetic sheet for the template to this PNG path and exit")
	marksPtr := flag.String("marks", "", "Marks for -generate, e.g. 1:2,2:4,3:1")
	sheetIDPtr := flag.String("sheet-id", "", "QR sheet identifier for -generate")
	skewPtr := flag.Float64("skew", 0, "Rotation in degrees applied by -generate")

	flag.Parse()

	level := zerolog.InfoLevel
	if *verbosePtr {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if *templatePtr == "" {
		log.Fatal().Msg("-template is required")
	}
	tpl, err := template.Load(*templatePtr)
	if err != nil {
		log.Fatal().Err(err).Msg("load template")
	}

	cfg := config.Default()
	if *configPtr != "" {
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *debugPtr != "" {
		cfg.DebugImageFormat = *debugPtr
	}

	if *generatePtr != "" {
		if err := generate(tpl, cfg, *generatePtr, *marksPtr, *sheetIDPtr, *skewPtr); err != nil {
			log.Fatal().Err(err).Msg("generate sheet")
		}
		fmt.Printf("[+] Sheet written: %s\n", *generatePtr)
		return
	}

	if *inputPtr == "" {
		log.Fatal().Msg("-input is required")
	}

	var key domain.AnswerKey
	if *keyPtr != "" {
		key, err = grading.LoadKey(*keyPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("load answer key")
		}
	}

	src, err := source.Open(*inputPtr, *dpiPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	defer src.Close()

	if src.SheetCount() == 0 {
		log.Fatal().Str("input", *inputPtr).Msg("no sheets found")
	}
	fmt.Printf("[*] Input: %s | Sheets: %d | Questions: %d\n", *inputPtr, src.SheetCount(), tpl.TotalQuestions)

	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batch, err := eng.ProcessBatch(ctx, source.ReadAll(src), tpl)
	if err != nil {
		log.Fatal().Err(err).Msg("process batch")
	}

	var grades []domain.GradingResult
	if key != nil {
		grades = eng.Grade(batch.Results, key, tpl.TotalQuestions)
		for _, g := range grades {
			fmt.Printf("[>] %s: %d%% (%d correct, %d wrong, %d unanswered)\n",
				g.FileName, g.Score, g.CorrectCount, g.WrongCount, g.UnansweredCount)
		}
	}
	for _, f := range batch.Errors {
		fmt.Printf("[!] %s: %v\n", f.FileName, f.Err)
	}

	outputPath := *outputPtr
	if outputPath == "" {
		os.MkdirAll("output", 0755)
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		outputPath = filepath.Join("output", fmt.Sprintf("omr_%s.yaml", timestamp))
	}

	if err := report.Write(report.New(*templatePtr, batch, grades), outputPath); err != nil {
		log.Fatal().Err(err).Msg("write report")
	}

	fmt.Printf("[+] %d of %d sheets recognized. Report: %s\n", len(batch.Results), src.SheetCount(), outputPath)
}

func generate(tpl *template.OMRTemplate, cfg config.Config, path, marks, sheetID string, skew float64) error {
	parsed, err := parseMarks(marks)
	if err != nil {
		return err
	}

	opts := sheet.DefaultOptions()
	opts.Marks = parsed
	opts.SheetID = sheetID
	opts.SkewDegrees = skew
	opts.ZoneWidth = cfg.MarkerZoneWidth
	opts.ZoneHeight = cfg.MarkerZoneHeight

	img, err := sheet.Render(tpl, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// parseMarks reads "question:option" pairs separated by commas.
func parseMarks(s string) (map[int][]int, error) {
	marks := map[int][]int{}
	if strings.TrimSpace(s) == "" {
		return marks, nil
	}

	for _, pair := range strings.Split(s, ",") {
		q, o, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid mark %q, want question:option", pair)
		}
		qn, err := strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("invalid question in %q: %w", pair, err)
		}
		on, err := strconv.Atoi(o)
		if err != nil {
			return nil, fmt.Errorf("invalid option in %q: %w", pair, err)
		}
		marks[qn] = append(marks[qn], on)
	}

	return marks, nil
}
