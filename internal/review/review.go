// Package review schedules quiz questions for spaced repetition.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thywilljoshua/pdf2quiz/internal/config"
	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

// Scheduler computes the next review of a question from an answer.
type Scheduler struct {
	// Intervals[i] is the wait after the (i+1)th consecutive correct answer.
	// Streaks beyond the list reuse the last interval.
	Intervals []time.Duration
	// MasteredStreak is the streak at which a question counts as mastered.
	MasteredStreak int
}

// NewScheduler builds a Scheduler from configuration.
func NewScheduler(cfg config.Review) Scheduler {
	return Scheduler{Intervals: cfg.Intervals, MasteredStreak: cfg.MasteredStreak}
}

// Apply returns q updated for an answer given at now. A wrong answer resets
// the streak and makes the question due again immediately.
func (s Scheduler) Apply(q quiz.Question, correct bool, now time.Time) quiz.Question {
	reviewed := now
	q.LastReviewedAt = &reviewed

	if !correct {
		q.CorrectStreak = 0
		q.Status = quiz.StatusLearning
		next := now
		q.NextReviewAt = &next
		return q
	}

	q.CorrectStreak++
	q.Status = quiz.StatusLearning
	if s.MasteredStreak > 0 && q.CorrectStreak >= s.MasteredStreak {
		q.Status = quiz.StatusMastered
	}
	next := now.Add(s.interval(q.CorrectStreak))
	q.NextReviewAt = &next
	return q
}

func (s Scheduler) interval(streak int) time.Duration {
	if len(s.Intervals) == 0 {
		return 24 * time.Hour
	}
	i := min(streak, len(s.Intervals)) - 1
	return s.Intervals[max(i, 0)]
}

// Repository is the storage the Service needs.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (quiz.Question, error)
	Update(ctx context.Context, q quiz.Question) error
	LogReview(ctx context.Context, id uuid.UUID, correct bool, at time.Time) error
	Due(ctx context.Context, now time.Time, limit int) ([]quiz.Question, error)
}

// Service records answers against stored questions.
type Service struct {
	Repo      Repository
	Scheduler Scheduler
	Logger    *slog.Logger
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Record applies an answer to the stored question and appends it to the
// review history. It returns the updated question.
func (s *Service) Record(ctx context.Context, id uuid.UUID, correct bool) (quiz.Question, error) {
	log := s.logger().With("question_id", id)

	q, err := s.Repo.Get(ctx, id)
	if err != nil {
		return quiz.Question{}, err
	}

	now := s.now()
	updated := s.Scheduler.Apply(q, correct, now)
	if err := s.Repo.Update(ctx, updated); err != nil {
		log.Error("failed to update question", "error", err)
		return quiz.Question{}, fmt.Errorf("updating review state: %w", err)
	}
	if err := s.Repo.LogReview(ctx, id, correct, now); err != nil {
		log.Error("failed to log review", "error", err)
		return quiz.Question{}, fmt.Errorf("logging review: %w", err)
	}

	log.Info("review recorded", "correct", correct, "streak", updated.CorrectStreak, "status", updated.Status)
	return updated, nil
}

// RecordChoice grades the chosen options against the stored answer and
// records the result.
func (s *Service) RecordChoice(ctx context.Context, id uuid.UUID, chosen []string) (quiz.Question, bool, error) {
	q, err := s.Repo.Get(ctx, id)
	if err != nil {
		return quiz.Question{}, false, err
	}
	correct := q.IsCorrect(chosen)
	updated, err := s.Record(ctx, id, correct)
	return updated, correct, err
}

// Due returns the questions to review now.
func (s *Service) Due(ctx context.Context, limit int) ([]quiz.Question, error) {
	qs, err := s.Repo.Due(ctx, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("finding due questions: %w", err)
	}
	s.logger().Info("found due questions", "count", len(qs))
	return qs, nil
}
