package convert

import (
	"context"
	"io"
	"log/slog"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
	"github.com/thywilljoshua/pdf2quiz/internal/store"
)

// Generator turns one PDF into questions.
type Generator interface {
	GenerateQuizFromPDF(ctx context.Context, path string) ([]quiz.Question, error)
}

// Auditor reviews generated questions.
type Auditor interface {
	AuditQuestions(ctx context.Context, qs []quiz.Question) ([]quiz.Question, error)
}

// Saver persists questions.
type Saver interface {
	Save(ctx context.Context, qs []quiz.Question) (store.SaveResult, error)
}

type Config struct {
	Generator Generator
	// Auditor, when set, reviews each file's questions before they are saved
	// or exported.
	Auditor Auditor
	// Saver, when set, stores each file's questions. Only newly stored
	// questions, with their IDs, are exported.
	Saver Saver
	// OutDir, when set, receives one export file per source PDF.
	OutDir string
	Format Format
	// Progress receives one line per step; nil discards it.
	Progress io.Writer
	Logger   *slog.Logger
}

// FileResult is the outcome for one source PDF.
type FileResult struct {
	Path       string          `json:"path"`
	Pages      int             `json:"pages,omitempty"`
	Generated  int             `json:"generated"`
	Questions  []quiz.Question `json:"questions"`
	Duplicates int             `json:"duplicates,omitempty"`
	Output     string          `json:"output,omitempty"`
	Err        error           `json:"-"`
}

type Summary struct {
	Generated  int `json:"generated"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
}

type Result struct {
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// Questions returns every question of the successful files in input order.
func (r Result) Questions() []quiz.Question {
	var out []quiz.Question
	for _, f := range r.Files {
		if f.Err == nil {
			out = append(out, f.Questions...)
		}
	}
	return out
}
