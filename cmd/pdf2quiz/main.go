package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2quiz/internal/ai"
	"github.com/thywilljoshua/pdf2quiz/internal/config"
	"github.com/thywilljoshua/pdf2quiz/internal/review"
	"github.com/thywilljoshua/pdf2quiz/internal/store"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	slog.SetDefault(a.log)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func (a *app) converter() (*ai.Converter, error) {
	return ai.NewConverter(a.cfg.Gemini, a.log)
}

func (a *app) openStore() (*store.Store, error) {
	return store.Open(a.cfg.Store.Path)
}

func (a *app) reviewService(s *store.Store) *review.Service {
	return &review.Service{
		Repo:      s,
		Scheduler: review.NewScheduler(a.cfg.Review),
		Logger:    a.log,
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "pdf2quiz",
		Short:             "Turn PDF study material into multiple-choice quizzes with Gemini",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./pdf2quiz.yaml or ~/.config/pdf2quiz/pdf2quiz.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	root.AddCommand(
		generateCmd(a),
		auditCmd(a),
		pingCmd(a),
		reviewCmd(a),
		listCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
