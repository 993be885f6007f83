package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/avioprep/avioprep/internal/kvstore"
	"github.com/avioprep/avioprep/internal/question"
)

// ErrEmptyPaper is a load error: an empty question set never becomes a
// session.
var ErrEmptyPaper = errors.New("question set is empty")

// Engine binds the state machine to a snapshot store. Every mutation is
// followed by a persistence write; storage failures are logged and swallowed
// so the attempt continues in memory (graceful degradation, never fatal).
type Engine struct {
	kv  kvstore.Store
	ns  string
	now func() int64
}

type Option func(*Engine)

func WithNamespace(ns string) Option    { return func(e *Engine) { e.ns = ns } }
func WithClock(now func() int64) Option { return func(e *Engine) { e.now = now } }

func NewEngine(kv kvstore.Store, opts ...Option) *Engine {
	e := &Engine{kv: kv, ns: "avioprep", now: unixNow}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) key(sessionKey string) string { return e.ns + ":" + sessionKey }

// LoadOrRestore starts an attempt for the given question set, restoring a
// persisted snapshot when one exists for the key and still matches the set.
// A stale or corrupt snapshot is discarded and the attempt starts fresh.
func (e *Engine) LoadOrRestore(ctx context.Context, qs []question.Question, sessionKey string) (*State, error) {
	if len(qs) == 0 {
		return nil, ErrEmptyPaper
	}
	s := newState(sessionKey, qs, unixTime(e.now()))
	raw, err := e.kv.Get(ctx, e.key(sessionKey))
	if err != nil {
		log.Printf("session: snapshot read failed for %s: %v", sessionKey, err)
		return s, nil
	}
	if raw == nil {
		return s, nil
	}
	snap, ok := decodeSnapshot(raw)
	if !ok || !snap.matches(qs) {
		// stale layout from an older revision of the paper
		if err := e.kv.Delete(ctx, e.key(sessionKey)); err != nil {
			log.Printf("session: stale snapshot delete failed for %s: %v", sessionKey, err)
		}
		return s, nil
	}
	snap.apply(s)
	return s, nil
}

// SubmitAnswer applies a write-once answer and persists the result.
func (e *Engine) SubmitAnswer(ctx context.Context, s *State, chosenIndex int) bool {
	if !s.SubmitAnswer(chosenIndex) {
		return false
	}
	e.save(ctx, s)
	return true
}

func (e *Engine) Advance(ctx context.Context, s *State) bool {
	if !s.Advance() {
		return false
	}
	e.save(ctx, s)
	return true
}

func (e *Engine) Retreat(ctx context.Context, s *State) bool {
	if !s.Retreat() {
		return false
	}
	e.save(ctx, s)
	return true
}

// Restart wipes the attempt and its persisted snapshot.
func (e *Engine) Restart(ctx context.Context, s *State) {
	s.Reset(unixTime(e.now()))
	if err := e.kv.Delete(ctx, e.key(s.PaperKey)); err != nil {
		log.Printf("session: snapshot clear failed for %s: %v", s.PaperKey, err)
	}
}

// Acknowledge clears the snapshot once a completed attempt's summary has been
// seen; the next load starts fresh.
func (e *Engine) Acknowledge(ctx context.Context, s *State) {
	if !s.Done {
		return
	}
	if err := e.kv.Delete(ctx, e.key(s.PaperKey)); err != nil {
		log.Printf("session: snapshot clear failed for %s: %v", s.PaperKey, err)
	}
}

func (e *Engine) save(ctx context.Context, s *State) {
	buf, err := s.Snapshot().encode()
	if err != nil {
		log.Printf("session: snapshot encode failed for %s: %v", s.PaperKey, err)
		return
	}
	if err := e.kv.Set(ctx, e.key(s.PaperKey), buf); err != nil {
		log.Printf("session: snapshot write failed for %s: %v", s.PaperKey, err)
	}
}

func unixNow() int64 { return time.Now().Unix() }

func unixTime(sec int64) time.Time { return time.Unix(sec, 0) }
