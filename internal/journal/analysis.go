package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// Analysis is one saved AI review of a range of entries.
type Analysis struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	RangeFrom string    `json:"rangeFrom,omitempty"`
	RangeTo   string    `json:"rangeTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) SaveAnalysis(ctx context.Context, a Analysis) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO analyses(id, title, prompt, result, range_from, range_to, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Title, a.Prompt, a.Result, nullable(a.RangeFrom), nullable(a.RangeTo), time.Now().UTC())
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	a := &Analysis{}
	var from, to sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, prompt, result, range_from, range_to, created_at FROM analyses WHERE id = ?",
		id).Scan(&a.ID, &a.Title, &a.Prompt, &a.Result, &from, &to, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	a.RangeFrom = from.String
	a.RangeTo = to.String
	return a, nil
}

func (s *Store) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, prompt, result, range_from, range_to, created_at FROM analyses ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		var from, to sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.Prompt, &a.Result, &from, &to, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.RangeFrom = from.String
		a.RangeTo = to.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAnalysis(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
