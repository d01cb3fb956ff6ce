package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gifloop/internal/logging"
	"gifloop/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var clean bool

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Analyze a video and render its best loop as a gif",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			cfg, err := flags.resolve(cmd, ctx)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			runCtx, runID := withRunID(cmd.Context())
			logger.Debug("run started", logging.String(logging.FieldRunID, runID), logging.String("input", input))

			p := newPipeline(cfg, logger, cmd.ErrOrStderr(), ctx.verbose())
			src, run, err := p.probe(runCtx, input)
			if err != nil {
				return err
			}
			store, frameCount, err := p.frames(runCtx, input, src, run)
			if err != nil {
				return err
			}
			res, err := p.analyze(runCtx, run, store, frameCount)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printAnalysis(out, src, run, frameCount, res)

			job, rendered, err := p.render(runCtx, input, run, res.Best)
			if err != nil {
				return err
			}
			if rendered.Skipped {
				fmt.Fprintf(out, "Gif already rendered at %s\n", job.GifPath)
			} else {
				fmt.Fprintf(out, "Wrote %s\n", job.GifPath)
			}

			if clean {
				report, err := p.clean(run)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s frames and %d files\n", formatCount(report.Frames), len(report.Files))
			}
			return nil
		},
	}

	flags.bindAnalysis(cmd.Flags())
	flags.bindOutput(cmd.Flags())
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove frames, cache and palette after rendering")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Score candidate loops and print the best one without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			cfg, err := flags.resolve(cmd, ctx)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			runCtx, _ := withRunID(cmd.Context())

			p := newPipeline(cfg, logger, cmd.ErrOrStderr(), ctx.verbose())
			src, run, err := p.probe(runCtx, input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				frameCount, err := p.framesForPlan(src, run)
				if err != nil {
					return err
				}
				pairs := run.PairCount(frameCount)
				summaryLine(out, "Input", "%s frames at %s fps", formatCount(src.FrameCount), formatRate(src.FrameRate))
				summaryLine(out, "Analysis", "%s frames at %s fps (%s, skip %d, max %d)",
					formatCount(frameCount), formatRate(run.AnalysisFPS), run.Metric, run.SkipFrames, run.Params(frameCount).MaxFrames)
				summaryLine(out, "Pairs", "%s", formatCount(pairs))
				if pairs == 0 {
					return services.Wrap(services.ErrConfiguration, "cli", "analyze",
						fmt.Sprintf("no candidate pairs for %d frames with skip %d", frameCount, run.SkipFrames), nil)
				}
				return nil
			}

			store, frameCount, err := p.frames(runCtx, input, src, run)
			if err != nil {
				return err
			}
			res, err := p.analyze(runCtx, run, store, frameCount)
			if err != nil {
				return err
			}
			printAnalysis(out, src, run, frameCount, res)
			return nil
		},
	}

	flags.bindAnalysis(cmd.Flags())
	cmd.Flags().Float64Var(&flags.outputFPS, "output-fps", 0, "Gif frame rate used for the summary (0 = source)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the number of candidate pairs without exporting or comparing")
	return cmd
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "render <video>",
		Short: "Render the best loop from a completed analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			cfg, err := flags.resolve(cmd, ctx)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			runCtx, _ := withRunID(cmd.Context())

			p := newPipeline(cfg, logger, cmd.ErrOrStderr(), ctx.verbose())
			src, run, err := p.probe(runCtx, input)
			if err != nil {
				return err
			}
			_, frameCount, err := p.existingFrames(run)
			if err != nil {
				return err
			}
			res, err := p.cachedBest(runCtx, run, frameCount)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printAnalysis(out, src, run, frameCount, res)

			job, rendered, err := p.render(runCtx, input, run, res.Best)
			if err != nil {
				return err
			}
			if rendered.Skipped {
				fmt.Fprintf(out, "Gif already rendered at %s\n", job.GifPath)
			} else {
				fmt.Fprintf(out, "Wrote %s\n", job.GifPath)
			}
			return nil
		},
	}

	flags.bindAnalysis(cmd.Flags())
	flags.bindOutput(cmd.Flags())
	return cmd
}
