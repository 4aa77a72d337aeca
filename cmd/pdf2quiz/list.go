package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2quiz/internal/convert"
	"github.com/thywilljoshua/pdf2quiz/internal/store"
)

func listCmd(a *app) *cobra.Command {
	var filter store.Filter
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions in the question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			qs, err := s.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if format == "" || format == "table" {
				return printTable(cmd.OutOrStdout(), qs)
			}
			f, err := convert.ParseFormat(format)
			if err != nil {
				return err
			}
			return convert.WriteQuestions(cmd.OutOrStdout(), qs, f)
		},
	}
	cmd.Flags().StringVar(&filter.SourceFile, "source", "", "only questions from this PDF file name")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only questions with this status: new|learning|mastered")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "maximum number of questions (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	return cmd
}
