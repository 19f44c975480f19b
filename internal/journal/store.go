package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tradelog/internal/content"
)

var ErrNotFound = errors.New("entry not found")

const dateLayout = "2006-01-02"

// Store keeps journal entries, their image manifests and saved AI
// analyses in a single sqlite database. One entry per calendar date.
type Store struct {
	db *sql.DB
}

type Entry struct {
	ID        string                   `json:"id"`
	Date      string                   `json:"date"`
	Fields    []content.Field          `json:"fields"`
	Images    []content.ExtractedImage `json:"images"`
	AIInsight string                   `json:"aiInsight,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// Field returns the stored value for key, or "".
func (e *Entry) Field(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// UpsertEntry writes a normalized submission for date, creating the
// entry if the date is new. Field values are replaced wholesale (the
// submission carries every field). Images follow the ownership rule:
// prior chart_upload rows are dropped and replaced by the new upload
// set, while inline-extracted rows accumulate across saves.
func (s *Store) UpsertEntry(ctx context.Context, date time.Time, ne content.NormalizedEntry) (string, error) {
	day := date.Format(dateLayout)
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM entries WHERE entry_date = ?", day).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO entries(id, entry_date, created_at, updated_at) VALUES(?, ?, ?, ?)",
			id, day, now, now)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE entries SET updated_at = ? WHERE id = ?", now, id); err != nil {
			return "", err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entry_fields WHERE entry_id = ?", id); err != nil {
		return "", err
	}
	for i, f := range ne.Fields {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO entry_fields(entry_id, field_key, value, position) VALUES(?, ?, ?, ?)",
			id, f.Key, f.Value, i)
		if err != nil {
			return "", err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM entry_images WHERE entry_id = ? AND section = ?",
		id, content.SectionChartUpload); err != nil {
		return "", err
	}
	for _, img := range ne.Images {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO entry_images(entry_id, filename, rel_path, caption, section, position) VALUES(?, ?, ?, ?, ?, ?)",
			id, img.Filename, img.RelPath, img.Caption, img.Section, img.Position)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetEntry(ctx context.Context, date time.Time) (*Entry, error) {
	day := date.Format(dateLayout)
	e := &Entry{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, entry_date, ai_insight, created_at, updated_at FROM entries WHERE entry_date = ?",
		day).Scan(&e.ID, &e.Date, &e.AIInsight, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadFields(ctx, e); err != nil {
		return nil, err
	}
	if err := s.loadImages(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries returns entries in ascending date order. Zero from/to
// leave that side of the range open.
func (s *Store) ListEntries(ctx context.Context, from, to time.Time) ([]Entry, error) {
	query := "SELECT id, entry_date, ai_insight, created_at, updated_at FROM entries"
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "entry_date >= ?")
		args = append(args, from.Format(dateLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "entry_date <= ?")
		args = append(args, to.Format(dateLayout))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY entry_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.AIInsight, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadFields(ctx, &out[i]); err != nil {
			return nil, err
		}
		if err := s.loadImages(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetInsight stores the AI coaching feedback for an entry.
func (s *Store) SetInsight(ctx context.Context, id, insight string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE entries SET ai_insight = ?, updated_at = ? WHERE id = ?",
		insight, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) loadFields(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT field_key, value FROM entry_fields WHERE entry_id = ? ORDER BY position",
		e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f content.Field
		if err := rows.Scan(&f.Key, &f.Value); err != nil {
			return err
		}
		e.Fields = append(e.Fields, f)
	}
	return rows.Err()
}

func (s *Store) loadImages(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT filename, rel_path, caption, section, position FROM entry_images WHERE entry_id = ? ORDER BY position, id",
		e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var img content.ExtractedImage
		if err := rows.Scan(&img.Filename, &img.RelPath, &img.Caption, &img.Section, &img.Position); err != nil {
			return err
		}
		e.Images = append(e.Images, img)
	}
	return rows.Err()
}
