package authoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avioprep/avioprep/internal/question"
)

func sampleBank() []question.Question {
	return []question.Question{
		{ID: "q1", Text: "Stall speed increases with?", Options: []string{"bank angle", "altitude"}, CorrectLabel: "a"},
		{ID: "q2", Text: "Cloud base?", Options: []string{"2000 ft", "3000 ft", "4000 ft"}, CorrectLabel: "b"},
		{ID: "q3", Text: "Transponder code?", Options: []string{"7500", "7600", "7700"}, CorrectLabel: "c"},
		{ID: "q4", Text: "Describe the go-around procedure"},
	}
}

func TestPoolDistractorsExcludesOwnOptions(t *testing.T) {
	bank := sampleBank()
	got := PoolDistractors(bank, bank[0], 3)
	require.Len(t, got, 3)

	for _, d := range got {
		assert.NotContains(t, bank[0].Options, d)
	}
	// no duplicates among the picks
	seen := map[string]bool{}
	for _, d := range got {
		assert.False(t, seen[d], "duplicate distractor %q", d)
		seen[d] = true
	}
}

func TestPoolDistractorsPrefersSiblingCorrectAnswers(t *testing.T) {
	bank := sampleBank()
	got := PoolDistractors(bank, bank[0], 2)
	require.Len(t, got, 2)

	// siblings contribute two correct answers ("3000 ft", "7700"); with only
	// two slots the primary pool fills both
	for _, d := range got {
		assert.Contains(t, []string{"3000 ft", "7700"}, d)
	}
}

func TestPoolDistractorsDeterministic(t *testing.T) {
	bank := sampleBank()
	first := PoolDistractors(bank, bank[1], 4)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PoolDistractors(bank, bank[1], 4))
	}
}

func TestPoolDistractorsWantBounds(t *testing.T) {
	bank := sampleBank()
	assert.Nil(t, PoolDistractors(bank, bank[0], 0))
	// asking for more than the pool holds returns the whole pool
	got := PoolDistractors(bank, bank[0], 50)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 6)
}

func TestFillOptions(t *testing.T) {
	bank := sampleBank()
	filled := FillOptions(bank, 4)
	require.Len(t, filled, len(bank))

	// q1 started with 2 options, padded to 4
	assert.Len(t, filled[0].Options, 4)
	// original options stay in place so the correct label still points right
	assert.Equal(t, bank[0].Options, filled[0].Options[:2])
	assert.Equal(t, "a", filled[0].CorrectLabel)

	// q2/q3 already at 3 with target 4: padded by one
	assert.Len(t, filled[1].Options, 4)

	// non-MCQ passes through untouched
	assert.Empty(t, filled[3].Options)

	// the source bank is not mutated
	assert.Len(t, bank[0].Options, 2)
}

func TestFillOptionsSkipsUnlabeled(t *testing.T) {
	bank := []question.Question{
		{ID: "q1", Text: "Q", Options: []string{"x", "y"}}, // no correct label
		{ID: "q2", Text: "Q", Options: []string{"p", "q", "r"}, CorrectLabel: "a"},
	}
	filled := FillOptions(bank, 4)
	assert.Len(t, filled[0].Options, 2, "a question without a usable answer must not be padded")
}

func TestValidateSet(t *testing.T) {
	bank := []question.Question{
		{ID: "q1", Text: "ok", Options: []string{"a", "b"}, CorrectLabel: "a"},
		{ID: "q1", Text: "dup id", Options: []string{"a", "b"}, CorrectLabel: "b"},
		{ID: "q2", Text: "", Options: []string{"x", "x", ""}, CorrectLabel: "f"},
		{ID: "q3", Text: "single option", Options: []string{"only"}, CorrectLabel: "a"},
		{ID: "q4", Text: "free form"},
	}
	problems := ValidateSet(bank)

	messages := map[string][]string{}
	for _, p := range problems {
		messages[p.QuestionID] = append(messages[p.QuestionID], p.Message)
	}

	assert.Empty(t, messages["q4"], "non-MCQ is exempt from option rules")
	assert.Contains(t, messages["q1"], "duplicate question id")
	assert.Contains(t, messages["q2"], "empty question text")
	assert.Contains(t, messages["q2"], "duplicate option: x")
	assert.Contains(t, messages["q2"], "empty option")
	assert.Contains(t, messages["q2"], "correct label missing or out of range")
	require.NotEmpty(t, messages["q3"])
	assert.Contains(t, messages["q3"][0], "option count 1 outside 2..6")
}

func TestParseDistractorJSON(t *testing.T) {
	got, err := parseDistractorJSON(`Here you go: ["one", "two", "three"] hope that helps`, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)

	_, err = parseDistractorJSON("no array here", 3)
	assert.Error(t, err)
}

func TestMockClient(t *testing.T) {
	got, err := MockClient{}.SuggestDistractors(context.Background(), question.Question{ID: "q9"}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
