package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"gifloop/internal/config"
	"gifloop/internal/resultcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	var cachePath string

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the result cache",
	}
	cacheCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Result cache database path")

	cacheCmd.AddCommand(newCacheStatsCommand(ctx, &cachePath))
	cacheCmd.AddCommand(newCacheTopCommand(ctx, &cachePath))
	cacheCmd.AddCommand(newCacheClearCommand(ctx, &cachePath))

	return cacheCmd
}

// resolveCachePath prefers the --cache flag over the configured path.
func resolveCachePath(ctx *commandContext, flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return config.ExpandPath(path)
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Analysis.CachePath, nil
}

// openExistingCache opens the cache without creating it. The boolean is false
// when no cache file exists yet.
func openExistingCache(cmd *cobra.Command, ctx *commandContext, flagValue string) (*resultcache.Store, bool, error) {
	path, err := resolveCachePath(ctx, flagValue)
	if err != nil {
		return nil, false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(cmd.OutOrStdout(), "No result cache at %s\n", path)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat cache: %w", err)
	}
	store, err := resultcache.Open(cmd.Context(), path)
	if err != nil {
		return nil, false, err
	}
	return store, true, nil
}

// cacheSize sums the database file and its journal files.
func cacheSize(path string) int64 {
	var total int64
	for _, file := range resultcache.Files(path) {
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
	}
	return total
}

func newCacheStatsCommand(ctx *commandContext, cachePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show result cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openExistingCache(cmd, ctx, *cachePath)
			if err != nil || !ok {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			best, err := store.Best(cmd.Context(), 1)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", store.Path())
			fmt.Fprintf(out, "Scores:  %s\n", formatCount(count))
			fmt.Fprintf(out, "Size:    %s\n", humanize.IBytes(uint64(cacheSize(store.Path()))))
			if len(best) > 0 {
				fmt.Fprintf(out, "Best:    %s\n", best[0])
			}
			return nil
		},
	}
}

type cachedScore struct {
	Rank  int     `json:"rank"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Value float64 `json:"value"`
}

func newCacheTopCommand(ctx *commandContext, cachePath *string) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the highest scoring cached pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openExistingCache(cmd, ctx, *cachePath)
			if err != nil || !ok {
				return err
			}
			defer store.Close()

			pairs, err := store.Best(cmd.Context(), limit)
			if err != nil {
				return err
			}
			scores := make([]cachedScore, 0, len(pairs))
			for i, p := range pairs {
				scores = append(scores, cachedScore{Rank: i + 1, From: p.From, To: p.To, Value: p.Value})
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), scores)
			}
			if len(scores) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Result cache is empty")
				return nil
			}
			tw := newTable(
				column{title: "#", numeric: true},
				column{title: "From", numeric: true},
				column{title: "To", numeric: true},
				column{title: "Length", numeric: true},
				column{title: "Value", numeric: true},
			)
			for _, s := range scores {
				tw.AppendRow(table.Row{s.Rank, s.From, s.To, s.To - s.From, strconv.FormatFloat(s.Value, 'f', -1, 64)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of pairs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext, cachePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached score",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openExistingCache(cmd, ctx, *cachePath)
			if err != nil || !ok {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s cached scores\n", formatCount(int(removed)))
			return nil
		},
	}
}
