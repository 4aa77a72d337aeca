package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(text, source string) quiz.Question {
	return quiz.New(text, []string{"a", "b", "c", "d", "e"}, []string{"a"}, "because", source)
}

func TestSaveAssignsIDsAndRoundTrips(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	in := []quiz.Question{sample("Q1", "a.pdf"), sample("Q2", "a.pdf")}
	res, err := s.Save(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, res.Duplicates)
	require.Len(t, res.Saved, 2)
	assert.Nil(t, in[0].ID, "input slice is not modified")

	for _, q := range res.Saved {
		require.NotNil(t, q.ID)
		got, err := s.Get(ctx, *q.ID)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
}

func TestSaveSkipsDuplicates(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.Save(ctx, []quiz.Question{sample("Q1", "a.pdf")})
	require.NoError(t, err)

	res, err := s.Save(ctx, []quiz.Question{
		sample("Q1", "a.pdf"),
		sample("Q1", "b.pdf"),
		sample("Q2", "a.pdf"),
		sample("Q2", "a.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Duplicates)
	assert.Len(t, res.Saved, 2)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveKeepsOptionalFields(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	cat, year := "welfare law", "2024"
	next := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	q := sample("Q", "a.pdf")
	q.Category = &cat
	q.ExamYear = &year
	q.NextReviewAt = &next
	q.Status = quiz.StatusLearning
	q.CorrectStreak = 2

	res, err := s.Save(ctx, []quiz.Question{q})
	require.NoError(t, err)
	got, err := s.Get(ctx, *res.Saved[0].ID)
	require.NoError(t, err)

	require.NotNil(t, got.Category)
	assert.Equal(t, cat, *got.Category)
	require.NotNil(t, got.ExamYear)
	assert.Equal(t, year, *got.ExamYear)
	require.NotNil(t, got.NextReviewAt)
	assert.True(t, next.Equal(*got.NextReviewAt))
	assert.Nil(t, got.LastReviewedAt)
	assert.Equal(t, quiz.StatusLearning, got.Status)
	assert.Equal(t, 2, got.CorrectStreak)
}

func TestGetNotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	learning := sample("Q3", "b.pdf")
	learning.Status = quiz.StatusLearning
	_, err := s.Save(ctx, []quiz.Question{sample("Q1", "a.pdf"), sample("Q2", "a.pdf"), learning})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"Q1", "Q2", "Q3"}},
		{"by source", Filter{SourceFile: "a.pdf"}, []string{"Q1", "Q2"}},
		{"by status", Filter{Status: quiz.StatusLearning}, []string{"Q3"}},
		{"limit", Filter{Limit: 2}, []string{"Q1", "Q2"}},
		{"no match", Filter{SourceFile: "a.pdf", Status: quiz.StatusMastered}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			var texts []string
			for _, q := range qs {
				texts = append(texts, q.QuestionText)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestUpdateAndDue(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	res, err := s.Save(ctx, []quiz.Question{sample("new", "a.pdf"), sample("overdue", "a.pdf"), sample("later", "a.pdf")})
	require.NoError(t, err)

	past, future := now.Add(-time.Hour), now.Add(72*time.Hour)
	overdue, later := res.Saved[1], res.Saved[2]
	overdue.Status, overdue.NextReviewAt, overdue.LastReviewedAt = quiz.StatusLearning, &past, &past
	later.Status, later.NextReviewAt = quiz.StatusLearning, &future
	require.NoError(t, s.Update(ctx, overdue))
	require.NoError(t, s.Update(ctx, later))

	due, err := s.Due(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "overdue", due[0].QuestionText)
	assert.Equal(t, "new", due[1].QuestionText)

	due, err = s.Due(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestUpdateNotFound(t *testing.T) {
	s := openTest(t)
	id := uuid.New()
	q := sample("Q", "a.pdf")
	q.ID = &id
	require.ErrorIs(t, s.Update(context.Background(), q), ErrNotFound)
	require.ErrorIs(t, s.Update(context.Background(), sample("Q", "a.pdf")), ErrNotFound)
}

func TestLogReview(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	res, err := s.Save(ctx, []quiz.Question{sample("Q", "a.pdf")})
	require.NoError(t, err)
	id := *res.Saved[0].ID

	t1 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	require.NoError(t, s.LogReview(ctx, id, false, t1))
	require.NoError(t, s.LogReview(ctx, id, true, t2))

	reviews, err := s.Reviews(ctx, id)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.False(t, reviews[0].Correct)
	assert.True(t, reviews[1].Correct)
	assert.True(t, t2.Equal(reviews[1].ReviewedAt))

	require.ErrorIs(t, s.LogReview(ctx, uuid.New(), true, t1), ErrNotFound)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), []quiz.Question{sample("Q", "a.pdf")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
