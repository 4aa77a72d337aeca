// Package quiz holds the question record shared by the converter, the
// question bank and the review scheduler, plus the two decoding policies
// used to turn model output back into questions.
package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Status values. Questions leave the converter as StatusNew; only the
// review scheduler moves them on.
const (
	StatusNew      = "new"
	StatusLearning = "learning"
	StatusMastered = "mastered"
)

// Question is a single multiple-choice quiz item.
type Question struct {
	ID             *uuid.UUID `json:"id" yaml:"id"`
	QuestionText   string     `json:"question_text" yaml:"question_text"`
	Options        []string   `json:"options" yaml:"options"`
	CorrectAnswer  []string   `json:"correct_answer" yaml:"correct_answer"`
	Explanation    string     `json:"explanation" yaml:"explanation"`
	SourceFile     string     `json:"source_file" yaml:"source_file"`
	Category       *string    `json:"category" yaml:"category"`
	ExamYear       *string    `json:"exam_year" yaml:"exam_year"`
	Status         string     `json:"status" yaml:"status"`
	NextReviewAt   *time.Time `json:"next_review_at" yaml:"next_review_at"`
	CorrectStreak  int        `json:"correct_streak" yaml:"correct_streak"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" yaml:"last_reviewed_at"`
}

// New builds a freshly generated question: no ID, no metadata, status new,
// zero streak and no review timestamps.
func New(text string, options, correct []string, explanation, sourceFile string) Question {
	return Question{
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   explanation,
		SourceFile:    sourceFile,
		Status:        StatusNew,
	}
}

// IsCorrect reports whether the chosen options are exactly the correct set,
// ignoring order.
func (q Question) IsCorrect(chosen []string) bool {
	if len(chosen) != len(q.CorrectAnswer) {
		return false
	}
	want := make(map[string]int, len(q.CorrectAnswer))
	for _, a := range q.CorrectAnswer {
		want[a]++
	}
	for _, c := range chosen {
		if want[c] == 0 {
			return false
		}
		want[c]--
	}
	return true
}
