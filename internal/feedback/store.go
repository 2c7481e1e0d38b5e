// Package feedback is the sqlite side-store for optional evaluation scores
// and user feedback records captured alongside answers. It sits outside the
// snapshot: losing it never affects retrieval.
package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	groundedness REAL NOT NULL,
	completeness REAL NOT NULL,
	relevance REAL NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS feedback (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Evaluation holds the side-logged answer quality scores, each 0-10
type Evaluation struct {
	Groundedness float64
	Completeness float64
	Relevance    float64
}

// Record is one stored feedback entry
type Record struct {
	ID        string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Store wraps the sqlite database
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path and ensures the schema exists
func Open(path string) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create feedback schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// LogEvaluation side-logs one evaluation for an answered question
func (s *Store) LogEvaluation(ctx context.Context, question, answer string, eval Evaluation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (question, answer, groundedness, completeness, relevance) VALUES (?, ?, ?, ?, ?)`,
		question, answer, eval.Groundedness, eval.Completeness, eval.Relevance)
	if err != nil {
		return fmt.Errorf("failed to log evaluation: %w", err)
	}
	return nil
}

// SaveFeedback records a question/answer pair and returns its feedback id
func (s *Store) SaveFeedback(ctx context.Context, question, answer string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, question, answer) VALUES (?, ?, ?)`,
		id, question, answer)
	if err != nil {
		return "", fmt.Errorf("failed to save feedback: %w", err)
	}
	return id, nil
}

// GetFeedback loads a stored feedback record by id
func (s *Store) GetFeedback(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, answer, created_at FROM feedback WHERE id = ?`, id)

	var rec Record
	if err := row.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to load feedback %s: %w", id, err)
	}
	return &rec, nil
}

// CountEvaluations returns the number of side-logged evaluations
func (s *Store) CountEvaluations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
