package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
	"github.com/thywilljoshua/pdf2quiz/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (g *fakeGenerator) GenerateQuizFromPDF(_ context.Context, path string) ([]quiz.Question, error) {
	g.mu.Lock()
	g.calls = append(g.calls, filepath.Base(path))
	g.mu.Unlock()
	if err := g.fail[filepath.Base(path)]; err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	return []quiz.Question{
		quiz.New(base+" Q1", []string{"a", "b", "c", "d", "e"}, []string{"a"}, "E1", base),
		quiz.New(base+" Q2", []string{"a", "b", "c", "d", "e"}, []string{"b", "c"}, "E2", base),
	}, nil
}

type fakeAuditor struct {
	err error
}

func (a fakeAuditor) AuditQuestions(_ context.Context, qs []quiz.Question) ([]quiz.Question, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		q.Explanation = "audited"
		out[i] = q
	}
	return out, nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644))
	}
}

func TestRunExpandsDirectoriesInOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf", "a.PDF", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))
	extra := filepath.Join(t.TempDir(), "c.pdf")
	touch(t, filepath.Dir(extra), "c.pdf")

	gen := &fakeGenerator{}
	res, err := Run(context.Background(), []string{dir, extra}, Config{Generator: gen, Logger: discard})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.PDF", "b.pdf", "c.pdf"}, gen.calls)
	assert.Equal(t, Summary{Generated: 6}, res.Summary)
	assert.Len(t, res.Questions(), 6)
}

func TestRunContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf", "c.pdf")
	boom := errors.New("quota")
	gen := &fakeGenerator{fail: map[string]error{"b.pdf": boom}}

	var progress bytes.Buffer
	res, err := Run(context.Background(), []string{dir}, Config{Generator: gen, Progress: &progress, Logger: discard})
	require.NoError(t, err)

	assert.Equal(t, Summary{Generated: 4, Failed: 1}, res.Summary)
	require.Len(t, res.Files, 3)
	assert.ErrorIs(t, res.Files[1].Err, boom)
	assert.Nil(t, res.Files[1].Questions)
	assert.Len(t, res.Questions(), 4)
	assert.Contains(t, progress.String(), "❌")
}

func TestRunAuditAndExport(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Social Welfare Law.pdf")
	out := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		format Format
		file   string
	}{
		{FormatJSON, "social-welfare-law.json"},
		{FormatYAML, "social-welfare-law.yaml"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			res, err := Run(context.Background(), []string{dir}, Config{
				Generator: &fakeGenerator{},
				Auditor:   fakeAuditor{},
				OutDir:    out,
				Format:    tt.format,
				Logger:    discard,
			})
			require.NoError(t, err)
			require.Len(t, res.Files, 1)
			assert.Equal(t, filepath.Join(out, tt.file), res.Files[0].Output)

			qs, err := ReadQuestions(res.Files[0].Output)
			require.NoError(t, err)
			require.Len(t, qs, 2)
			assert.Equal(t, "audited", qs[0].Explanation)
			assert.Equal(t, []string{"b", "c"}, qs[1].CorrectAnswer)
			assert.Equal(t, "Social Welfare Law.pdf", qs[0].SourceFile)
		})
	}
}

func TestRunAuditFailureFailsFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")

	res, err := Run(context.Background(), []string{dir}, Config{
		Generator: &fakeGenerator{},
		Auditor:   fakeAuditor{err: errors.New("403")},
		Logger:    discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Failed)
	assert.Zero(t, res.Summary.Generated)
}

func TestRunSavesAndCountsDuplicates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	s, err := store.Open(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	defer s.Close()

	cfg := Config{Generator: &fakeGenerator{}, Saver: s, Logger: discard}
	res, err := Run(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)
	assert.Equal(t, Summary{Generated: 2}, res.Summary)
	for _, q := range res.Questions() {
		assert.NotNil(t, q.ID)
	}

	res, err = Run(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)
	assert.Equal(t, Summary{Generated: 2, Duplicates: 2}, res.Summary)
	assert.Empty(t, res.Questions())
}

func TestRunNoInputs(t *testing.T) {
	_, err := Run(context.Background(), []string{t.TempDir()}, Config{Generator: &fakeGenerator{}})
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{}
	_, err := Run(ctx, []string{dir}, Config{Generator: gen, Logger: discard})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.calls)
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "chapter-1-basics.json", exportName("/x/Chapter 1. Basics.pdf", "source-1", FormatJSON))
	assert.Equal(t, "source-2.yaml", exportName("/x/社会福祉.pdf", "source-2", FormatYAML))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("csv")
	require.Error(t, err)
}

func TestWriteQuestionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteQuestions(&buf, nil, FormatJSON))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, WriteFile(path, nil))
	qs, err := ReadQuestions(path)
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestPageCountOnInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "broken.pdf")
	assert.Zero(t, pageCount(filepath.Join(dir, "broken.pdf")))
	assert.Zero(t, pageCount(filepath.Join(dir, "missing.pdf")))
}
