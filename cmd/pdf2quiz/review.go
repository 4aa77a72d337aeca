package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2quiz/internal/quiz"
)

func reviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Spaced-repetition review of stored questions",
	}
	cmd.AddCommand(reviewRecordCmd(a), reviewDueCmd(a))
	return cmd
}

func reviewRecordCmd(a *app) *cobra.Command {
	var correct, wrong bool
	var choices []string

	cmd := &cobra.Command{
		Use:   "record <question-id>",
		Short: "Record an answer and reschedule the question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid question id %q: %w", args[0], err)
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			svc := a.reviewService(s)

			var q quiz.Question
			ok := correct
			if len(choices) > 0 {
				q, ok, err = svc.RecordChoice(cmd.Context(), id, choices)
			} else {
				q, err = svc.Record(cmd.Context(), id, correct)
			}
			if err != nil {
				return err
			}

			mark := "✅ correct"
			if !ok {
				mark = "❌ wrong, answer: " + strings.Join(q.CorrectAnswer, ", ")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nstatus: %s, streak: %d, next review: %s\n",
				mark, q.Status, q.CorrectStreak, q.NextReviewAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&correct, "correct", false, "the answer was correct")
	cmd.Flags().BoolVar(&wrong, "wrong", false, "the answer was wrong")
	cmd.Flags().StringSliceVar(&choices, "choice", nil, "chosen option(s); graded against the stored answer")
	cmd.MarkFlagsMutuallyExclusive("correct", "wrong", "choice")
	cmd.MarkFlagsOneRequired("correct", "wrong", "choice")
	return cmd
}

func reviewDueCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List questions due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			qs, err := a.reviewService(s).Due(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), qs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of questions (0 for all)")
	return cmd
}

func printTable(w io.Writer, qs []quiz.Question) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSTREAK\tSOURCE\tQUESTION")
	for _, q := range qs {
		id := ""
		if q.ID != nil {
			id = q.ID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", id, q.Status, q.CorrectStreak, q.SourceFile, truncate(q.QuestionText, 60))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
