package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Report is the on-disk summary of one batch run
type Report struct {
	Version     string                 `yaml:"version" json:"version"`
	GeneratedAt time.Time              `yaml:"generatedAt" json:"generatedAt"`
	Template    string                 `yaml:"template" json:"template"`
	Results     []domain.ProcessResult `yaml:"results" json:"results"`
	Failures    []Failure              `yaml:"failures" json:"failures"`
	Grades      []domain.GradingResult `yaml:"grades,omitempty" json:"grades,omitempty"`
}

// Failure is a FileError flattened for serialization
type Failure struct {
	FileName string `yaml:"fileName" json:"fileName"`
	Error    string `yaml:"error" json:"error"`
}

// New builds a report from a batch and its optional grades.
func New(templatePath string, batch *domain.BatchResult, grades []domain.GradingResult) *Report {
	failures := make([]Failure, 0, len(batch.Errors))
	for _, e := range batch.Errors {
		failures = append(failures, Failure{FileName: e.FileName, Error: e.Err.Error()})
	}

	return &Report{
		Version:     "1.0",
		GeneratedAt: time.Now().UTC(),
		Template:    templatePath,
		Results:     batch.Results,
		Failures:    failures,
		Grades:      grades,
	}
}

// Write stores the report as JSON when path ends in .json, YAML otherwise.
func Write(r *Report, path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = yaml.Marshal(r)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read loads a report written by Write
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if isJSON(path) {
		err = json.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
