package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gifloop/internal/logging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove exported frames, the result cache and the palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, ctx)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			// clean never reads the source, so any positive rate freezes the paths
			run, err := cfg.Run(1)
			if err != nil {
				return err
			}
			p := newPipeline(cfg, logger, cmd.ErrOrStderr(), ctx.verbose())
			report, err := p.clean(run)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %s frames from %s\n", formatCount(report.Frames), run.FramesDir)
			for _, file := range report.Files {
				fmt.Fprintf(out, "Removed %s\n", file)
			}
			logger.Debug("clean finished", logging.Int("files", len(report.Files)))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.framesDir, "frames-dir", "", "Directory holding the exported analysis frames")
	cmd.Flags().StringVar(&flags.cachePath, "cache", "", "Result cache database path")
	cmd.Flags().StringVar(&flags.palettePath, "palette", "", "Palette image path")
	return cmd
}
