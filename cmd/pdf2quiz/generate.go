package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2quiz/internal/convert"
)

func generateCmd(a *app) *cobra.Command {
	var out string
	var format string
	var audit bool
	var save bool

	cmd := &cobra.Command{
		Use:   "generate <pdf|dir>...",
		Short: "Generate quiz questions from PDF files",
		Long: "Sends each PDF to Gemini and converts the reply into quiz questions.\n" +
			"Directories are expanded to the PDFs they contain. Without --out the\n" +
			"questions of all files are printed to stdout.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := convert.ParseFormat(format)
			if err != nil {
				return err
			}
			conv, err := a.converter()
			if err != nil {
				return err
			}

			conf := convert.Config{
				Generator: conv,
				OutDir:    out,
				Format:    f,
				Progress:  cmd.ErrOrStderr(),
				Logger:    a.log,
			}
			if audit {
				conf.Auditor = conv
			}
			if save {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()
				conf.Saver = s
			}

			res, err := convert.Run(cmd.Context(), args, conf)
			if err != nil {
				return err
			}
			if out == "" {
				if err := convert.WriteQuestions(cmd.OutOrStdout(), res.Questions(), f); err != nil {
					return err
				}
			}
			if res.Summary.Failed == len(res.Files) {
				return fmt.Errorf("all %d files failed", len(res.Files))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory for one export file per PDF (default: print to stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json|yaml")
	cmd.Flags().BoolVar(&audit, "audit", false, "have Gemini review the generated questions before export")
	cmd.Flags().BoolVar(&save, "save", false, "store the questions in the question bank")
	return cmd
}
