package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"gifloop/internal/preflight"
	"gifloop/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe and the output locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tw := newTable(column{title: "Check"}, column{title: "Status"}, column{title: "Detail"})
			failed := 0
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Path
				if !status.Available {
					detail = status.Detail
					if !status.Optional {
						failed++
					}
				}
				tw.AppendRow(table.Row{status.Name, okLabel(status.Available), detail})
			}
			for _, result := range preflight.RunAll(cfg) {
				if !result.Passed {
					failed++
				}
				tw.AppendRow(table.Row{result.Name, okLabel(result.Passed), result.Detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			if failed > 0 {
				return services.Wrap(services.ErrValidation, "cli", "check", fmt.Sprintf("%d check(s) failed", failed), nil)
			}
			return nil
		},
	}
}

func okLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
