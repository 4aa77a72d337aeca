package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Gemini API key and endpoint work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conv, err := a.converter()
			if err != nil {
				return err
			}
			reply, err := conv.TestAPIConnection(cmd.Context())
			if err != nil {
				return fmt.Errorf("❌ connection test failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s replied: %s\n", a.cfg.Gemini.Model, reply)
			return nil
		},
	}
}
