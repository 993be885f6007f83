// Package session holds the practice-attempt state machine: question
// sequencing, write-once answer scoring, and snapshot persistence. All
// transitions are plain functions of the state so any binding (HTTP, CLI,
// tests) can drive them.
package session

import (
	"math"
	"time"

	"github.com/avioprep/avioprep/internal/question"
)

type AnswerRecord struct {
	SelectedIndex int  `json:"selected_index"`
	IsCorrect     bool `json:"is_correct"`
}

// State is one practice attempt over a fixed question list.
//
// Invariants: Score equals the number of correct history entries;
// CurrentIndex stays within [0, len(Questions)-1]; Done implies the last
// question has been reached.
type State struct {
	PaperKey           string
	Questions          []question.Question
	CurrentIndex       int
	SelectedForCurrent *int
	AnswersHistory     map[int]AnswerRecord
	Score              int
	StartTime          time.Time
	Done               bool
}

func newState(paperKey string, qs []question.Question, now time.Time) *State {
	return &State{
		PaperKey:       paperKey,
		Questions:      qs,
		AnswersHistory: map[int]AnswerRecord{},
		StartTime:      now,
	}
}

func (s *State) Current() question.Question { return s.Questions[s.CurrentIndex] }

// SubmitAnswer records the chosen option for the current question. Answers
// are write-once: a second submission on the same question is silently
// ignored. Returns whether the submission took effect.
func (s *State) SubmitAnswer(chosenIndex int) bool {
	if s.Done || s.SelectedForCurrent != nil {
		return false
	}
	q := s.Current()
	if !q.IsMCQ() || chosenIndex < 0 || chosenIndex >= len(q.Options) {
		return false
	}
	correct := question.IndexLetter(chosenIndex) == q.CorrectLabel
	s.AnswersHistory[s.CurrentIndex] = AnswerRecord{SelectedIndex: chosenIndex, IsCorrect: correct}
	if correct {
		s.Score++
	}
	idx := chosenIndex
	s.SelectedForCurrent = &idx
	return true
}

// Advance moves to the next question, or marks the attempt done at the last
// one. An unanswered MCQ blocks advancing; a question with no options does
// not require an answer.
func (s *State) Advance() bool {
	if s.Done {
		return false
	}
	if s.Current().IsMCQ() && s.SelectedForCurrent == nil {
		return false
	}
	if s.CurrentIndex < len(s.Questions)-1 {
		s.CurrentIndex++
		s.restoreSelection()
		return true
	}
	s.Done = true
	return true
}

// Retreat steps back one question (floor 0), repopulating the selection from
// history so an already-answered question renders locked, not blank.
func (s *State) Retreat() bool {
	if s.CurrentIndex == 0 {
		return false
	}
	s.CurrentIndex--
	s.Done = false
	s.restoreSelection()
	return true
}

func (s *State) restoreSelection() {
	if rec, ok := s.AnswersHistory[s.CurrentIndex]; ok {
		idx := rec.SelectedIndex
		s.SelectedForCurrent = &idx
	} else {
		s.SelectedForCurrent = nil
	}
}

// Reset returns the attempt to its initial state with a new start time.
func (s *State) Reset(now time.Time) {
	s.CurrentIndex = 0
	s.SelectedForCurrent = nil
	s.AnswersHistory = map[int]AnswerRecord{}
	s.Score = 0
	s.StartTime = now
	s.Done = false
}

// Percent is the completion score as a rounded percentage. A zero-length
// paper never reaches a session, but guard anyway.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
