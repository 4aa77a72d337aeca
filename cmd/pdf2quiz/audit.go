package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2quiz/internal/convert"
)

func auditCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "audit <questions.json|yaml>",
		Short: "Have Gemini review and correct an exported question file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := convert.ReadQuestions(args[0])
			if err != nil {
				return err
			}
			conv, err := a.converter()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "🔍 auditing %d questions from %s\n", len(qs), args[0])
			audited, err := conv.AuditQuestions(cmd.Context(), qs)
			if err != nil {
				return err
			}

			if out == "" {
				return convert.WriteQuestions(cmd.OutOrStdout(), audited, convert.FormatFromPath(args[0]))
			}
			if err := convert.WriteFile(out, audited); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ wrote %d questions to %s\n", len(audited), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, format from its extension (default: print to stdout)")
	return cmd
}
