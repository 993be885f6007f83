// Package report implements the question-issue workflow: learners file a
// typed report against a question; admins review, resolve, dismiss, or delete
// it. A submitted report is never mutable by its reporter.
package report

import (
	"errors"
	"time"
)

type Type string

const (
	TypeWrongAnswer       Type = "wrong_answer"
	TypeIncorrectQuestion Type = "incorrect_question"
	TypeFormattingIssue   Type = "formatting_issue"
	TypeMissingData       Type = "missing_data"
	TypeOther             Type = "other"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

var (
	ErrNotFound          = errors.New("report not found")
	ErrTypeRequired      = errors.New("report type required")
	ErrCommentRequired   = errors.New("comment required for type other")
	ErrUnknownType       = errors.New("unknown report type")
	ErrUnknownStatus     = errors.New("unknown report status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Report struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	PaperKey   string `json:"paper_key,omitempty"`
	Type       Type   `json:"type"`
	Comment    string `json:"comment,omitempty"`
	Status     Status `json:"status"`
	Reporter   string `json:"reporter,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at,omitempty"`
}

func ValidType(t Type) bool {
	switch t {
	case TypeWrongAnswer, TypeIncorrectQuestion, TypeFormattingIssue, TypeMissingData, TypeOther:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// allowedTransition: overwrites are idempotent (same status is always fine);
// pending may move to any review outcome; reviewed may settle to resolved or
// dismissed; settled reports stay settled.
func allowedTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusReviewed || to == StatusResolved || to == StatusDismissed
	case StatusReviewed:
		return to == StatusResolved || to == StatusDismissed
	default:
		return false
	}
}

func nowUnix() int64 { return time.Now().Unix() }
