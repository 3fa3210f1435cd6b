package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/schemagen/internal/prompt"
)

func newInteractiveCmd(a *app) *cobra.Command {
	var (
		save    string
		noRun   bool
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "ask for the generation settings on the console, then generate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []prompt.Option{prompt.WithMaxAttempts(a.cfg.Prompt.MaxAttempts)}
			if noColor || a.cfg.Log.NoColor {
				opts = append(opts, prompt.WithColor(false))
			}

			s, err := prompt.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), opts...).
				Run(cmd.Context(), a.cfg.Settings())
			if err != nil {
				return err
			}

			if save != "" {
				if err := s.Save(save); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "settings saved to %s\n", save)
			}
			if noRun {
				return nil
			}
			return run(cmd, a, s)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "write the answered settings to this YAML file")
	cmd.Flags().BoolVar(&noRun, "no-run", false, "stop after the session without generating")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "plain prompts without colour")
	return cmd
}
