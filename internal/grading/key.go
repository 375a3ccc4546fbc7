package grading

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// ParseKey reads an answer key document mapping question numbers to option labels,
// e.g. `{"1": "2", "2": "1"}` or the equivalent YAML.
func ParseKey(data []byte) (domain.AnswerKey, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answer key: %w", err)
	}

	key := make(domain.AnswerKey, len(raw))
	for q, label := range raw {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("parse answer key: invalid question number %q", q)
		}
		key[n] = label
	}
	return key, nil
}

func LoadKey(path string) (domain.AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKey(data)
}
