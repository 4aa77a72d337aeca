// Package store persists quiz questions and review history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

// ErrNotFound is returned when no question has the requested ID.
var ErrNotFound = errors.New("question not found")

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is the question bank.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			question_text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			explanation TEXT,
			source_file TEXT,
			category TEXT,
			exam_year TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			next_review_at TEXT,
			correct_streak INTEGER NOT NULL DEFAULT 0,
			last_reviewed_at TEXT,
			created_at TEXT NOT NULL,
			UNIQUE (question_text, source_file)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_source ON questions(source_file)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_due ON questions(status, next_review_at)`,
		`CREATE TABLE IF NOT EXISTS review_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			correct INTEGER NOT NULL,
			reviewed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_log_question ON review_log(question_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	// Saved holds the inserted questions with their assigned IDs.
	Saved []quiz.Question
	// Duplicates counts questions skipped because the same text from the
	// same source file is already stored.
	Duplicates int
}

// Save inserts questions in one transaction. Questions without an ID get a
// new one; the caller's slice is not modified.
func (s *Store) Save(ctx context.Context, qs []quiz.Question) (SaveResult, error) {
	var res SaveResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO questions (id, question_text, options, correct_answer, explanation,
			source_file, category, exam_year, status, next_review_at, correct_streak, last_reviewed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return res, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for _, q := range qs {
		if q.ID == nil {
			id := uuid.New()
			q.ID = &id
		}
		if q.Status == "" {
			q.Status = quiz.StatusNew
		}
		opts, answers, err := encodeLists(q)
		if err != nil {
			return SaveResult{}, err
		}
		r, err := stmt.ExecContext(ctx,
			q.ID.String(), q.QuestionText, opts, answers, q.Explanation,
			q.SourceFile, q.Category, q.ExamYear, q.Status,
			nullTime(q.NextReviewAt), q.CorrectStreak, nullTime(q.LastReviewedAt), now,
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("inserting question %s: %w", q.ID, err)
		}
		if n, _ := r.RowsAffected(); n == 0 {
			res.Duplicates++
			continue
		}
		res.Saved = append(res.Saved, q)
	}

	if err := tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("committing: %w", err)
	}
	return res, nil
}

const selectColumns = `SELECT id, question_text, options, correct_answer, explanation, source_file,
	category, exam_year, status, next_review_at, correct_streak, last_reviewed_at FROM questions`

// Get returns the question with the given ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (quiz.Question, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id.String())
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return q, err
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	SourceFile string
	Status     string
	Limit      int
}

// List returns stored questions in insertion order.
func (s *Store) List(ctx context.Context, f Filter) ([]quiz.Question, error) {
	var (
		where []string
		args  []any
	)
	if f.SourceFile != "" {
		where = append(where, "source_file = ?")
		args = append(args, f.SourceFile)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, rowid LIMIT ?"
	args = append(args, limitArg(f.Limit))

	return s.query(ctx, query, args...)
}

// Due returns questions that are new or whose next review is at or before
// now, overdue ones first.
func (s *Store) Due(ctx context.Context, now time.Time, limit int) ([]quiz.Question, error) {
	return s.query(ctx, selectColumns+`
		WHERE status = ? OR (next_review_at IS NOT NULL AND next_review_at <= ?)
		ORDER BY next_review_at IS NULL, next_review_at, rowid
		LIMIT ?`,
		quiz.StatusNew, formatTime(now), limitArg(limit))
}

// Update replaces every stored field of q except its creation time.
func (s *Store) Update(ctx context.Context, q quiz.Question) error {
	if q.ID == nil {
		return fmt.Errorf("%w: question has no id", ErrNotFound)
	}
	opts, answers, err := encodeLists(q)
	if err != nil {
		return err
	}
	r, err := s.db.ExecContext(ctx,
		`UPDATE questions SET question_text = ?, options = ?, correct_answer = ?, explanation = ?,
			source_file = ?, category = ?, exam_year = ?, status = ?, next_review_at = ?,
			correct_streak = ?, last_reviewed_at = ?
		 WHERE id = ?`,
		q.QuestionText, opts, answers, q.Explanation, q.SourceFile, q.Category, q.ExamYear,
		q.Status, nullTime(q.NextReviewAt), q.CorrectStreak, nullTime(q.LastReviewedAt),
		q.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating question %s: %w", q.ID, err)
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, q.ID)
	}
	return nil
}

// Review is one entry of a question's answer history.
type Review struct {
	QuestionID uuid.UUID
	Correct    bool
	ReviewedAt time.Time
}

// LogReview appends an answer to the review history.
func (s *Store) LogReview(ctx context.Context, id uuid.UUID, correct bool, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_log (question_id, correct, reviewed_at) VALUES (?, ?, ?)`,
		id.String(), correct, formatTime(at))
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("logging review: %w", err)
	}
	return nil
}

// Reviews returns the answer history of a question, oldest first.
func (s *Store) Reviews(ctx context.Context, id uuid.UUID) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT correct, reviewed_at FROM review_log WHERE question_id = ? ORDER BY id`, id.String())
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var (
			r  Review
			at string
		)
		if err := rows.Scan(&r.Correct, &at); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		if r.ReviewedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parsing reviewed_at: %w", err)
		}
		r.QuestionID = id
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(sc scanner) (quiz.Question, error) {
	var (
		q                  quiz.Question
		id, opts, answers  string
		explanation, src   sql.NullString
		category, year     sql.NullString
		nextReview, lastAt sql.NullString
	)
	err := sc.Scan(&id, &q.QuestionText, &opts, &answers, &explanation, &src,
		&category, &year, &q.Status, &nextReview, &q.CorrectStreak, &lastAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return q, err
		}
		return q, fmt.Errorf("scanning question: %w", err)
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return q, fmt.Errorf("parsing id %q: %w", id, err)
	}
	q.ID = &uid
	if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
		return q, fmt.Errorf("decoding options of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(answers), &q.CorrectAnswer); err != nil {
		return q, fmt.Errorf("decoding correct_answer of %s: %w", id, err)
	}
	q.Explanation = explanation.String
	q.SourceFile = src.String
	if category.Valid {
		q.Category = &category.String
	}
	if year.Valid {
		q.ExamYear = &year.String
	}
	if q.NextReviewAt, err = parseTime(nextReview); err != nil {
		return q, err
	}
	if q.LastReviewedAt, err = parseTime(lastAt); err != nil {
		return q, err
	}
	return q, nil
}

func encodeLists(q quiz.Question) (string, string, error) {
	opts, err := json.Marshal(nonNil(q.Options))
	if err != nil {
		return "", "", fmt.Errorf("encoding options: %w", err)
	}
	answers, err := json.Marshal(nonNil(q.CorrectAnswer))
	if err != nil {
		return "", "", fmt.Errorf("encoding correct_answer: %w", err)
	}
	return string(opts), string(answers), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, ns.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", ns.String, err)
	}
	return &t, nil
}

// limitArg maps a non-positive limit to SQLite's "no limit".
func limitArg(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
