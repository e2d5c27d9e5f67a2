// Package bank holds the static question bank.
package bank

import (
	_ "embed"
	"strings"

	"brain-battle/internal/domain"
)

//go:embed questions.txt
var dataset string

// fieldCount is question text, five options and the answer letter.
const fieldCount = 2 + domain.OptionCount

// Load parses the embedded dataset. Every call returns a fresh slice.
func Load() []domain.Question {
	return Parse(dataset)
}

// Size reports how many questions the embedded dataset yields.
func Size() int {
	return len(Load())
}

// Parse reads "|"-delimited rows: text|A|B|C|D|E|answer.
// Rows that do not form a valid question are skipped.
func Parse(raw string) []domain.Question {
	var questions []domain.Question
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if q, ok := parseRow(line); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

func parseRow(line string) (domain.Question, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != fieldCount {
		return domain.Question{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	q := domain.Question{
		Text:    parts[0],
		Correct: domain.Label(strings.ToUpper(parts[fieldCount-1])),
	}
	if q.Text == "" || q.Correct.Index() < 0 {
		return domain.Question{}, false
	}

	seen := make(map[string]struct{}, domain.OptionCount)
	for i := 0; i < domain.OptionCount; i++ {
		opt := parts[i+1]
		if opt == "" {
			return domain.Question{}, false
		}
		if _, dup := seen[opt]; dup {
			return domain.Question{}, false
		}
		seen[opt] = struct{}{}
		q.Options[i] = opt
	}
	return q, true
}
