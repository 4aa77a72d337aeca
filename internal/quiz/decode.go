package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrInvalidJSON means the model text is not the expected JSON array.
	ErrInvalidJSON = errors.New("invalid generated JSON")
	// ErrInvalidOptions means a generated question's options field is not an array.
	ErrInvalidOptions = errors.New("invalid options format")
)

// Mode selects how model output is mapped onto questions.
type Mode int

const (
	// Lenient reads each field on its own and substitutes defaults for
	// anything missing or mistyped. Only a non-array options field fails.
	Lenient Mode = iota
	// Strict requires every non-optional field to be present with the right
	// type; one bad element fails the whole decode.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decode parses model text as a JSON array of questions. Code fences around
// the payload are removed first. sourceFile is stamped on every question in
// Lenient mode and ignored in Strict mode, where the payload carries it.
func Decode(mode Mode, text, sourceFile string) ([]Question, error) {
	clean := StripCodeFences(text)
	switch mode {
	case Lenient:
		return decodeLenient(clean, sourceFile)
	case Strict:
		return decodeStrict(clean)
	default:
		return nil, fmt.Errorf("unknown decode mode %v", mode)
	}
}

// StripCodeFences removes a leading ```json or ``` marker and a trailing ```
// marker, if present.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func invalidJSON(cause error, raw string) error {
	return fmt.Errorf("%w: %v | Raw: %s", ErrInvalidJSON, cause, raw)
}

func decodeLenient(text, sourceFile string) ([]Question, error) {
	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, invalidJSON(err, text)
	}
	if raw == nil {
		return nil, invalidJSON(errors.New("expected a JSON array"), text)
	}

	out := make([]Question, 0, len(raw))
	for i, el := range raw {
		obj, _ := el.(map[string]any)

		optsVal, ok := obj["options"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: question %d", ErrInvalidOptions, i)
		}
		options := make([]string, len(optsVal))
		for j, o := range optsVal {
			options[j] = stringOr(o)
		}

		out = append(out, New(
			stringOr(obj["question_text"]),
			options,
			correctAnswers(obj["correct_answer"]),
			stringOr(obj["explanation"]),
			sourceFile,
		))
	}
	return out, nil
}

// correctAnswers accepts an array of strings or a single string. Anything
// else yields an empty slice.
func correctAnswers(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, len(t))
		for i, a := range t {
			out[i] = stringOr(a)
		}
		return out
	case string:
		return []string{t}
	default:
		return []string{}
	}
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

// strictQuestion mirrors Question with pointers so absent and null fields
// can be told apart from zero values.
type strictQuestion struct {
	ID             *uuid.UUID `json:"id"`
	QuestionText   *string    `json:"question_text" validate:"required"`
	Options        *[]string  `json:"options" validate:"required"`
	CorrectAnswer  *[]string  `json:"correct_answer" validate:"required"`
	Explanation    *string    `json:"explanation" validate:"required"`
	SourceFile     *string    `json:"source_file" validate:"required"`
	Category       *string    `json:"category"`
	ExamYear       *string    `json:"exam_year"`
	Status         *string    `json:"status" validate:"required"`
	NextReviewAt   *time.Time `json:"next_review_at"`
	CorrectStreak  *int       `json:"correct_streak" validate:"required"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
}

var validate = validator.New()

func decodeStrict(text string) ([]Question, error) {
	var raw []strictQuestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, invalidJSON(err, text)
	}
	if raw == nil {
		return nil, invalidJSON(errors.New("expected a JSON array"), text)
	}

	out := make([]Question, 0, len(raw))
	for i, sq := range raw {
		if err := validate.Struct(sq); err != nil {
			return nil, invalidJSON(fmt.Errorf("question %d: %w", i, err), text)
		}
		out = append(out, Question{
			ID:             sq.ID,
			QuestionText:   *sq.QuestionText,
			Options:        *sq.Options,
			CorrectAnswer:  *sq.CorrectAnswer,
			Explanation:    *sq.Explanation,
			SourceFile:     *sq.SourceFile,
			Category:       sq.Category,
			ExamYear:       sq.ExamYear,
			Status:         *sq.Status,
			NextReviewAt:   sq.NextReviewAt,
			CorrectStreak:  *sq.CorrectStreak,
			LastReviewedAt: sq.LastReviewedAt,
		})
	}
	return out, nil
}
