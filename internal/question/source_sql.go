package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLSource serves papers from the papers table. Question sets are stored as
// a JSON column in whatever upstream shape they arrived in and normalized on
// read, so reimported banks never require a migration.
type SQLSource struct{ db *sql.DB }

func NewSQLSource(db *sql.DB) *SQLSource { return &SQLSource{db: db} }

type PaperSummary struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

func (s *SQLSource) FetchQuestions(ctx context.Context, paperKey string) ([]Question, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT questions_json FROM papers WHERE paper_key=$1`, paperKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, paperKey)
		}
		return nil, err
	}
	qs, err := NormalizeSet([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("paper %s: %w", paperKey, err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: %s (empty set)", ErrNotFound, paperKey)
	}
	return qs, nil
}

// PutPaper upserts a paper with its raw question JSON. The payload is
// normalized once up front so malformed uploads are rejected at the boundary.
func (s *SQLSource) PutPaper(ctx context.Context, paperKey, title string, rawQuestions []byte) (int, error) {
	qs, err := NormalizeSet(rawQuestions)
	if err != nil {
		return 0, err
	}
	if len(qs) == 0 {
		return 0, errors.New("question set is empty")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO papers (paper_key,title,questions_json,question_count,updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (paper_key) DO UPDATE SET title=EXCLUDED.title,
		   questions_json=EXCLUDED.questions_json,
		   question_count=EXCLUDED.question_count,
		   updated_at=EXCLUDED.updated_at`,
		paperKey, title, string(rawQuestions), len(qs), time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return len(qs), nil
}

func (s *SQLSource) DeletePaper(ctx context.Context, paperKey string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE paper_key=$1`, paperKey)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, paperKey)
	}
	return nil
}

func (s *SQLSource) ListPapers(ctx context.Context, q string, limit, offset int) ([]PaperSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows *sql.Rows
	var err error
	if q == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT paper_key,title,question_count FROM papers ORDER BY paper_key LIMIT $1 OFFSET $2`,
			limit, offset)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT paper_key,title,question_count FROM papers
			 WHERE paper_key LIKE $1 OR title LIKE $1
			 ORDER BY paper_key LIMIT $2 OFFSET $3`,
			"%"+q+"%", limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PaperSummary{}
	for rows.Next() {
		var p PaperSummary
		if err := rows.Scan(&p.Key, &p.Title, &p.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarshalQuestions renders canonical questions back to JSON, used by the
// authoring CLI when rewriting a bundle after distractor generation.
func MarshalQuestions(qs []Question) ([]byte, error) {
	return json.MarshalIndent(qs, "", "  ")
}
