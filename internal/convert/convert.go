// Package convert runs the PDF-to-quiz pipeline over many files: generate,
// optionally audit, optionally save, and export per source file.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNoInputs is returned when the inputs expand to no files.
var ErrNoInputs = errors.New("no PDF files to process")

// Run processes inputs one after another. Directories expand to the PDFs
// they contain. A file that fails is reported and counted, and the batch
// moves on; Run itself fails only on setup errors or cancellation.
func Run(ctx context.Context, inputs []string, cfg Config) (Result, error) {
	if cfg.Generator == nil {
		return Result{}, errors.New("convert: no generator configured")
	}
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	files, err := expandInputs(inputs)
	if err != nil {
		return Result{}, fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return Result{}, ErrNoInputs
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fr := processFile(ctx, path, i, cfg, progress)
		if fr.Err != nil {
			log.Warn("file failed", "file", path, "error", fr.Err)
			fmt.Fprintf(progress, "❌ %s: %v\n", path, fr.Err)
			res.Summary.Failed++
		} else {
			res.Summary.Generated += fr.Generated
			res.Summary.Duplicates += fr.Duplicates
		}
		res.Files = append(res.Files, fr)
	}

	fmt.Fprintf(progress, "\n✅ generated: %d, failed files: %d, duplicates: %d\n",
		res.Summary.Generated, res.Summary.Failed, res.Summary.Duplicates)
	return res, nil
}

func processFile(ctx context.Context, path string, idx int, cfg Config, progress io.Writer) FileResult {
	fr := FileResult{Path: path, Pages: pageCount(path)}
	if fr.Pages > 0 {
		fmt.Fprintf(progress, "📄 %s (%d pages)\n", path, fr.Pages)
	} else {
		fmt.Fprintf(progress, "📄 %s\n", path)
	}

	qs, err := cfg.Generator.GenerateQuizFromPDF(ctx, path)
	if err != nil {
		fr.Err = fmt.Errorf("generating: %w", err)
		return fr
	}
	fr.Generated = len(qs)
	fmt.Fprintf(progress, "🤖 generated %d questions\n", len(qs))

	if cfg.Auditor != nil {
		audited, err := cfg.Auditor.AuditQuestions(ctx, qs)
		if err != nil {
			fr.Err = fmt.Errorf("auditing: %w", err)
			return fr
		}
		fmt.Fprintf(progress, "🔍 audited %d questions\n", len(audited))
		qs = audited
	}

	if cfg.Saver != nil {
		saved, err := cfg.Saver.Save(ctx, qs)
		if err != nil {
			fr.Err = fmt.Errorf("saving: %w", err)
			return fr
		}
		fmt.Fprintf(progress, "💾 saved %d questions (%d duplicates skipped)\n", len(saved.Saved), saved.Duplicates)
		qs = saved.Saved
		fr.Duplicates = saved.Duplicates
	}

	if cfg.OutDir != "" {
		format := cfg.Format
		if format == "" {
			format = FormatJSON
		}
		out := filepath.Join(cfg.OutDir, exportName(path, fmt.Sprintf("source-%d", idx+1), format))
		f, err := os.Create(out)
		if err != nil {
			fr.Err = fmt.Errorf("exporting: %w", err)
			return fr
		}
		err = WriteQuestions(f, qs, format)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fr.Err = fmt.Errorf("exporting: %w", err)
			return fr
		}
		fmt.Fprintf(progress, "📝 wrote %s\n", out)
		fr.Output = out
	}

	fr.Questions = qs
	return fr
}
