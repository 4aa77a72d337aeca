// Package ai converts PDF documents into quiz questions with the Gemini
// generateContent API, audits existing questions, and probes connectivity.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thywilljoshua/pdf2quiz/internal/config"
	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

// NoText is returned by TestAPIConnection when the reply carries no text part.
const NoText = "No text"

// Converter is the document QA converter. Its fields are read-only after
// construction, so one value may be shared between goroutines.
type Converter struct {
	Backend   Backend
	Model     string
	APIKeyEnv string

	GenerateTimeout time.Duration
	AuditTimeout    time.Duration
	ProbeTimeout    time.Duration

	Logger *slog.Logger
	// Getenv looks up the API key; nil means os.Getenv.
	Getenv func(string) string
}

// NewConverter builds a Converter from configuration.
func NewConverter(cfg config.Gemini, logger *slog.Logger) (*Converter, error) {
	b, err := NewBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Converter{
		Backend:         b,
		Model:           cfg.Model,
		APIKeyEnv:       cfg.APIKeyEnv,
		GenerateTimeout: cfg.GenerateTimeout,
		AuditTimeout:    cfg.AuditTimeout,
		ProbeTimeout:    cfg.ProbeTimeout,
		Logger:          logger,
	}, nil
}

func (c *Converter) apiKey() (string, error) {
	name := c.APIKeyEnv
	if name == "" {
		name = "GEMINI_API_KEY"
	}
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	key := getenv(name)
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrCredentialMissing, name)
	}
	return key, nil
}

// GenerateQuizFromPDF sends the whole PDF inline with the quiz prompt and
// returns the questions in the order the model produced them. Every question
// is stamped with the file's base name and starts out new.
func (c *Converter) GenerateQuizFromPDF(ctx context.Context, path string) ([]quiz.Question, error) {
	key, err := c.apiKey()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	log := loggerOrDefault(c.Logger)
	log.Info("generating quiz", "file", path, "pdf_bytes", len(data))

	text, err := c.Backend.GenerateContent(ctx, Request{
		Model:            c.Model,
		APIKey:           key,
		Parts:            []Part{TextPart(quizPrompt), InlinePart("application/pdf", data)},
		JSON:             true,
		Timeout:          c.GenerateTimeout,
		CaptureErrorBody: true,
	})
	if err != nil {
		return nil, err
	}

	qs, err := quiz.Decode(quiz.Lenient, text, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	log.Info("parsed generated questions", "file", path, "count", len(qs))
	return qs, nil
}

// AuditQuestions asks the model to review and correct questions and returns
// the corrected set. A non-success status is reported without its body.
func (c *Converter) AuditQuestions(ctx context.Context, questions []quiz.Question) ([]quiz.Question, error) {
	key, err := c.apiKey()
	if err != nil {
		return nil, err
	}

	if questions == nil {
		questions = []quiz.Question{}
	}
	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encoding questions: %w", err)
	}

	loggerOrDefault(c.Logger).Info("auditing questions", "count", len(questions))

	text, err := c.Backend.GenerateContent(ctx, Request{
		Model:   c.Model,
		APIKey:  key,
		Parts:   []Part{TextPart(auditPrompt(payload))},
		JSON:    true,
		Timeout: c.AuditTimeout,
	})
	if err != nil {
		return nil, err
	}
	return quiz.Decode(quiz.Strict, text, "")
}

// TestAPIConnection sends a trivial prompt and returns the raw reply.
func (c *Converter) TestAPIConnection(ctx context.Context) (string, error) {
	key, err := c.apiKey()
	if err != nil {
		return "", err
	}

	text, err := c.Backend.GenerateContent(ctx, Request{
		Model:            c.Model,
		APIKey:           key,
		Parts:            []Part{TextPart(probePrompt)},
		Timeout:          c.ProbeTimeout,
		CaptureErrorBody: true,
	})
	if errors.Is(err, ErrMalformedResponse) {
		return NoText, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}
