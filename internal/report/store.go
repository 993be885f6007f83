package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}

type Store interface {
	Create(ctx context.Context, r Report) error
	Get(ctx context.Context, id string) (Report, error)
	List(ctx context.Context, opts ListOpts) ([]Report, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt int64) error
	Delete(ctx context.Context, id string) error
}

// SQLStore persists reports in the reports table.
type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, r Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id,question_id,paper_key,typ,comment,status,reporter,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.QuestionID, r.PaperKey, string(r.Type), r.Comment, string(r.Status),
		r.Reporter, r.CreatedAt, r.UpdatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,question_id,paper_key,typ,comment,status,reporter,created_at,updated_at
		 FROM reports WHERE id=$1`, id)
	return scanReport(row)
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Report, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows *sql.Rows
	var err error
	if opts.Status == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,question_id,paper_key,typ,comment,status,reporter,created_at,updated_at
			 FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, opts.Offset)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,question_id,paper_key,typ,comment,status,reporter,created_at,updated_at
			 FROM reports WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			string(opts.Status), limit, opts.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateStatus(ctx context.Context, id string, status Status, updatedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status=$1, updated_at=$2 WHERE id=$3`,
		string(status), updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var typ, status string
	err := row.Scan(&r.ID, &r.QuestionID, &r.PaperKey, &typ, &r.Comment, &status,
		&r.Reporter, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	r.Type, r.Status = Type(typ), Status(status)
	return r, nil
}

// MemoryStore backs tests and single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	m       map[string]Report
	order   []string
	failing error // when set, every mutation fails with it
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{m: map[string]Report{}} }

// Fail makes subsequent mutations return err; Fail(nil) heals the store.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = err
}

func (s *MemoryStore) Create(_ context.Context, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return s.failing
	}
	s.m[r.ID] = r
	s.order = append(s.order, r.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOpts) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Report{}
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.m[s.order[i]]
		if opts.Status != "" && r.Status != opts.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return s.failing
	}
	r, ok := s.m[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	s.m[id] = r
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return s.failing
	}
	if _, ok := s.m[id]; !ok {
		return ErrNotFound
	}
	delete(s.m, id)
	return nil
}
