package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func (f Format) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// WriteQuestions encodes qs to w. A nil slice is written as an empty list.
func WriteQuestions(w io.Writer, qs []quiz.Question, f Format) error {
	if qs == nil {
		qs = []quiz.Question{}
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(qs); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(qs); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// WriteFile writes qs to path in the format implied by its extension.
func WriteFile(path string, qs []quiz.Question) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteQuestions(f, qs, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadQuestions loads questions previously written by WriteQuestions.
func ReadQuestions(path string) ([]quiz.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var qs []quiz.Question
	switch FormatFromPath(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &qs)
	default:
		err = json.Unmarshal(data, &qs)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if qs == nil {
		qs = []quiz.Question{}
	}
	return qs, nil
}
