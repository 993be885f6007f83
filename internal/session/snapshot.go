package session

import (
	"encoding/json"
	"time"

	"github.com/avioprep/avioprep/internal/question"
)

// Snapshot is the persisted form of a State. Question IDs are stored instead
// of the questions themselves; on restore the live question set is compared
// against them and a mismatch marks the snapshot stale.
type Snapshot struct {
	QuestionIDs    []string             `json:"question_ids"`
	Current        int                  `json:"current"`
	Selected       *int                 `json:"selected"`
	Done           bool                 `json:"done"`
	Score          int                  `json:"score"`
	StartTime      int64                `json:"start_time"`
	AnswersHistory map[int]AnswerRecord `json:"answers_history"`
}

func (s *State) Snapshot() Snapshot {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	var sel *int
	if s.SelectedForCurrent != nil {
		v := *s.SelectedForCurrent
		sel = &v
	}
	hist := make(map[int]AnswerRecord, len(s.AnswersHistory))
	for k, v := range s.AnswersHistory {
		hist[k] = v
	}
	return Snapshot{
		QuestionIDs:    ids,
		Current:        s.CurrentIndex,
		Selected:       sel,
		Done:           s.Done,
		Score:          s.Score,
		StartTime:      s.StartTime.Unix(),
		AnswersHistory: hist,
	}
}

func (snap Snapshot) encode() ([]byte, error) { return json.Marshal(snap) }

func decodeSnapshot(b []byte) (Snapshot, bool) {
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// matches reports whether the snapshot belongs to this question set. The
// stored count must equal the live count; anything else is stale.
func (snap Snapshot) matches(qs []question.Question) bool {
	if len(snap.QuestionIDs) != len(qs) {
		return false
	}
	if snap.Current < 0 || snap.Current >= len(qs) {
		return false
	}
	return true
}

// apply restores a matching snapshot into a fresh state.
func (snap Snapshot) apply(s *State) {
	s.CurrentIndex = snap.Current
	s.Done = snap.Done
	s.Score = snap.Score
	s.StartTime = time.Unix(snap.StartTime, 0)
	if snap.AnswersHistory != nil {
		s.AnswersHistory = snap.AnswersHistory
	}
	if snap.Selected != nil {
		v := *snap.Selected
		s.SelectedForCurrent = &v
	} else {
		s.restoreSelection()
	}
}
