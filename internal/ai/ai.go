package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thywilljoshua/pdf2quiz/internal/config"
)

// Part is one element of a request: either text or an inline binary blob.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart returns a text-only part.
func TextPart(s string) Part { return Part{Text: s} }

// InlinePart returns a part carrying raw bytes of the given MIME type.
func InlinePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Request is a single generateContent call.
type Request struct {
	Model  string
	APIKey string
	Parts  []Part
	// JSON constrains the response MIME type to application/json.
	JSON bool
	// Timeout bounds the whole round trip. Zero means no client deadline.
	Timeout time.Duration
	// CaptureErrorBody reads the response body into APIError on a
	// non-success status. When false only the status is reported.
	CaptureErrorBody bool
}

// Backend performs one generateContent round trip and returns the text of
// the first part of the first candidate.
type Backend interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
}

// NewBackend returns the transport named by cfg.Backend.
func NewBackend(cfg config.Gemini, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", config.BackendREST:
		return &REST{BaseURL: cfg.BaseURL, Logger: logger}, nil
	case config.BackendSDK:
		return &SDK{BaseURL: cfg.BaseURL, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", cfg.Backend)
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
