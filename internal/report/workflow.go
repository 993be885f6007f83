package report

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Draft is a report before submission. Validation happens here so an invalid
// draft never reaches a store or the network.
type Draft struct {
	QuestionID string `json:"question_id"`
	PaperKey   string `json:"paper_key,omitempty"`
	Type       Type   `json:"type"`
	Comment    string `json:"comment,omitempty"`
	Reporter   string `json:"-"`
}

func (d Draft) Validate() error {
	if d.Type == "" {
		return ErrTypeRequired
	}
	if !ValidType(d.Type) {
		return fmt.Errorf("%w: %s", ErrUnknownType, d.Type)
	}
	if d.Type == TypeOther && d.Comment == "" {
		return ErrCommentRequired
	}
	if d.QuestionID == "" {
		return fmt.Errorf("question_id required")
	}
	return nil
}

// Notifier is the side channel for freshly submitted reports (email compose
// toward the content team). Delivery failures never fail the submission.
type Notifier interface {
	NotifyReport(ctx context.Context, r Report) error
}

type Auditor interface {
	Append(ctx context.Context, typ, key string, data any) error
}

type Workflow struct {
	store    Store
	notifier Notifier
	audit    Auditor
	now      func() int64
}

type WorkflowOption func(*Workflow)

func WithNotifier(n Notifier) WorkflowOption    { return func(w *Workflow) { w.notifier = n } }
func WithAuditor(a Auditor) WorkflowOption      { return func(w *Workflow) { w.audit = a } }
func WithClock(now func() int64) WorkflowOption { return func(w *Workflow) { w.now = now } }

func NewWorkflow(store Store, opts ...WorkflowOption) *Workflow {
	w := &Workflow{store: store, now: nowUnix}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Submit validates the draft and files it as pending. On a store failure the
// draft is untouched at the caller and the error is retryable.
func (w *Workflow) Submit(ctx context.Context, d Draft) (Report, error) {
	if err := d.Validate(); err != nil {
		return Report{}, err
	}
	now := w.now()
	r := Report{
		ID:         uuid.NewString(),
		QuestionID: d.QuestionID,
		PaperKey:   d.PaperKey,
		Type:       d.Type,
		Comment:    d.Comment,
		Status:     StatusPending,
		Reporter:   d.Reporter,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := w.store.Create(ctx, r); err != nil {
		return Report{}, fmt.Errorf("submit report: %w", err)
	}
	if w.notifier != nil {
		if err := w.notifier.NotifyReport(ctx, r); err != nil {
			log.Printf("report: notification failed for %s: %v", r.ID, err)
		}
	}
	w.logEvent(ctx, "ReportSubmitted", r)
	return r, nil
}

// SetStatus applies an admin status transition. Overwriting with the current
// status is a no-op success.
func (w *Workflow) SetStatus(ctx context.Context, id string, status Status) (Report, error) {
	if !ValidStatus(status) {
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	r, err := w.store.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	if !allowedTransition(r.Status, status) {
		return Report{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
	}
	if r.Status == status {
		return r, nil
	}
	now := w.now()
	if err := w.store.UpdateStatus(ctx, id, status, now); err != nil {
		return Report{}, err
	}
	r.Status = status
	r.UpdatedAt = now
	w.logEvent(ctx, "ReportStatusChanged", r)
	return r, nil
}

// Delete removes a report permanently. Callers gate this behind an explicit
// confirmation; there is no undo.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	r, err := w.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := w.store.Delete(ctx, id); err != nil {
		return err
	}
	w.logEvent(ctx, "ReportDeleted", r)
	return nil
}

func (w *Workflow) Get(ctx context.Context, id string) (Report, error) { return w.store.Get(ctx, id) }

func (w *Workflow) List(ctx context.Context, opts ListOpts) ([]Report, error) {
	return w.store.List(ctx, opts)
}

func (w *Workflow) logEvent(ctx context.Context, typ string, r Report) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Append(ctx, typ, r.ID, r); err != nil {
		log.Printf("report: audit append failed for %s: %v", r.ID, err)
	}
}
