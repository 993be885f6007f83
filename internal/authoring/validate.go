// Package authoring backs the MCQ authoring tooling: bank validation and
// distractor generation for questions that arrive with too few options.
package authoring

import (
	"fmt"
	"strings"

	"github.com/avioprep/avioprep/internal/question"
)

// Problem is one validation finding, keyed to the offending question.
type Problem struct {
	QuestionID string
	Message    string
}

func (p Problem) String() string { return p.QuestionID + ": " + p.Message }

// ValidateSet checks canonical-shape rules over a whole bank. Non-MCQ
// questions (no options) are exempt from option rules.
func ValidateSet(qs []question.Question) []Problem {
	var out []Problem
	seen := map[string]bool{}
	for _, q := range qs {
		if seen[q.ID] {
			out = append(out, Problem{q.ID, "duplicate question id"})
		}
		seen[q.ID] = true
		out = append(out, validateOne(q)...)
	}
	return out
}

func validateOne(q question.Question) []Problem {
	var out []Problem
	if strings.TrimSpace(q.Text) == "" {
		out = append(out, Problem{q.ID, "empty question text"})
	}
	if !q.IsMCQ() {
		return out
	}
	if len(q.Options) < 2 || len(q.Options) > 6 {
		out = append(out, Problem{q.ID, fmt.Sprintf("option count %d outside 2..6", len(q.Options))})
	}
	if q.CorrectIndex() < 0 {
		out = append(out, Problem{q.ID, "correct label missing or out of range"})
	}
	dup := map[string]bool{}
	for _, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			out = append(out, Problem{q.ID, "empty option"})
			continue
		}
		if dup[key] {
			out = append(out, Problem{q.ID, "duplicate option: " + opt})
		}
		dup[key] = true
	}
	return out
}
