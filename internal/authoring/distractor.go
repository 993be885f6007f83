package authoring

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/avioprep/avioprep/internal/question"
)

// Distractors are harvested from sibling questions in the same bank: their
// correct answers first (these read like real answers), then their remaining
// options. Candidates colliding with the target's own options or answer are
// dropped. Selection is seeded by question ID so reruns are reproducible.
func PoolDistractors(bank []question.Question, target question.Question, want int) []string {
	if want <= 0 {
		return nil
	}
	taken := map[string]bool{}
	for _, opt := range target.Options {
		taken[normOpt(opt)] = true
	}

	var primary, secondary []string
	for _, q := range bank {
		if q.ID == target.ID {
			continue
		}
		ci := q.CorrectIndex()
		for i, opt := range q.Options {
			key := normOpt(opt)
			if key == "" || taken[key] {
				continue
			}
			taken[key] = true
			if i == ci {
				primary = append(primary, opt)
			} else {
				secondary = append(secondary, opt)
			}
		}
	}

	rng := rand.New(rand.NewSource(seedFor(target.ID)))
	rng.Shuffle(len(primary), func(i, j int) { primary[i], primary[j] = primary[j], primary[i] })
	rng.Shuffle(len(secondary), func(i, j int) { secondary[i], secondary[j] = secondary[j], secondary[i] })

	out := make([]string, 0, want)
	for _, c := range append(primary, secondary...) {
		if len(out) == want {
			break
		}
		out = append(out, c)
	}
	return out
}

// FillOptions pads every MCQ in the bank up to optionCount options using the
// pool strategy, leaving the correct label stable. Questions already at or
// above the target, and non-MCQ questions, pass through untouched.
func FillOptions(bank []question.Question, optionCount int) []question.Question {
	out := make([]question.Question, len(bank))
	for i, q := range bank {
		out[i] = q
		if !q.IsMCQ() || len(q.Options) >= optionCount || q.CorrectIndex() < 0 {
			continue
		}
		extra := PoolDistractors(bank, q, optionCount-len(q.Options))
		out[i].Options = append(append([]string{}, q.Options...), extra...)
	}
	return out
}

func normOpt(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func seedFor(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64())
}
