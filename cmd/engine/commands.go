package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-engine/internal/app"
	"github.com/riskibarqy/tournament-engine/internal/config"
	"github.com/riskibarqy/tournament-engine/internal/platform/id"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	storage string
	verbose bool
	limit   int
	workers int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Version:      "dev",
		Use:          "engine",
		Short:        "Generates and advances tournament structures",
		SilenceUsage: true,
	}
	p := root.PersistentFlags()
	p.StringVarP(&opts.storage, "storage", "s", "", "storage driver override (postgres|memory)")
	p.BoolVarP(&opts.verbose, "verbose", "v", false, "log engine operations to stdout")

	generate := &cobra.Command{
		Use:   "generate <competition-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Generate rounds, matches and standings for a PENDING competition",
		RunE: opts.run(func(ctx context.Context, engine *app.Engine, args []string) (any, error) {
			competitionID, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return engine.Structure.GenerateStructure(ctx, competitionID)
		}),
	}

	generateBatch := &cobra.Command{
		Use:   "generate-batch <competition-id>...",
		Args:  cobra.MinimumNArgs(1),
		Short: "Generate several competitions on a worker pool",
		RunE: opts.run(func(ctx context.Context, engine *app.Engine, args []string) (any, error) {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				competitionID, err := parseID(arg)
				if err != nil {
					return nil, err
				}
				ids = append(ids, competitionID)
			}
			return engine.Structure.GenerateBatch(ctx, ids, opts.workers, id.NewRandomGenerator())
		}),
	}
	generateBatch.Flags().IntVarP(&opts.workers, "workers", "w", 4, "worker pool size")

	advance := &cobra.Command{
		Use:   "advance <competition-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Promote group qualifiers into the knockout bracket",
		RunE: opts.run(func(ctx context.Context, engine *app.Engine, args []string) (any, error) {
			competitionID, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return engine.GroupPhase.AdvanceGroupPhase(ctx, competitionID)
		}),
	}

	standings := &cobra.Command{
		Use:   "standings <competition-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Print ranked tables or the knockout bracket",
		RunE: opts.run(func(ctx context.Context, engine *app.Engine, args []string) (any, error) {
			competitionID, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return engine.Standings.GetStandings(ctx, competitionID, opts.limit)
		}),
	}
	standings.Flags().IntVarP(&opts.limit, "limit", "n", 0, "rows per table, 0 for all")

	rankings := &cobra.Command{
		Use:   "rankings <competition-id> <metric>",
		Args:  cobra.ExactArgs(2),
		Short: "Print player totals for one stat metric",
		RunE: opts.run(func(ctx context.Context, engine *app.Engine, args []string) (any, error) {
			competitionID, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return engine.Standings.GetPlayerRankings(ctx, competitionID, args[1], opts.limit)
		}),
	}
	rankings.Flags().IntVarP(&opts.limit, "limit", "n", 10, "rows to print, 0 for all")

	root.AddCommand(generate, generateBatch, advance, standings, rankings)
	return root
}

type engineFunc func(ctx context.Context, engine *app.Engine, args []string) (any, error)

// run builds the engine from the environment, calls fn and prints its result
// as indented JSON.
func (o *rootOptions) run(fn engineFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if o.storage != "" {
			cfg.StorageDriver = strings.ToLower(strings.TrimSpace(o.storage))
		}

		logger := logging.NewNop()
		if o.verbose {
			logger = logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: cmd.ErrOrStderr()})
		}

		ctx := cmd.Context()
		engine, err := app.NewEngine(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}
		defer engine.Close()

		result, err := fn(ctx, engine, args)
		if err != nil {
			return err
		}

		out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("competition id must be a positive integer, got %q", raw)
	}
	return v, nil
}
