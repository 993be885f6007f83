package question

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound covers a missing paper key and an empty question set alike:
// neither may produce a session.
var ErrNotFound = errors.New("paper not found")

// Source supplies the ordered question list for a paper or chapter key.
// Results are deterministic per key; no shuffling happens at this layer.
type Source interface {
	FetchQuestions(ctx context.Context, paperKey string) ([]Question, error)
}

// BundleSource reads static JSON bundles from a directory tree, one file per
// paper key.
type BundleSource struct{ base string }

func NewBundleSource(base string) *BundleSource { return &BundleSource{base: base} }

func (s *BundleSource) FetchQuestions(_ context.Context, paperKey string) ([]Question, error) {
	p, err := s.path(paperKey)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, paperKey)
		}
		return nil, err
	}
	qs, err := NormalizeSet(raw)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", paperKey, err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: %s (empty set)", ErrNotFound, paperKey)
	}
	return qs, nil
}

func (s *BundleSource) path(paperKey string) (string, error) {
	clean := filepath.Clean(paperKey)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, paperKey)
	}
	return filepath.Join(s.base, clean+".json"), nil
}
