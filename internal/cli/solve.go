package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/searchclient"
	"github.com/pdrpinto/searchclient/internal/config"
	"github.com/pdrpinto/searchclient/internal/logging"
	"github.com/pdrpinto/searchclient/internal/memory"
	"github.com/pdrpinto/searchclient/internal/parser"
	"github.com/pdrpinto/searchclient/internal/protocol"
)

// solveOptions holds the flags of the root command.
type solveOptions struct {
	configPath string
	bfs        bool
	dfs        bool
	astar      bool
	wastar     int
	greedy     bool
	maxMemory  float64
	logLevel   string
	logFormat  string
}

var strategyFlags = []string{"bfs", "dfs", "astar", "wastar", "greedy"}

func (a *App) newSolveCmd() *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "searchclient",
		Short: "Graph-search client for multi-agent grid levels",
		Long: `searchclient reads a level from the coordinator on stdin, searches for a
plan with the selected strategy and streams the plan back on stdout, one joint
action per line. Diagnostics are written to stderr.

Examples:
  # Breadth-first search (the default)
  searchclient --bfs

  # Weighted A* with weight 3 and a 1 GB memory bound
  searchclient --wastar=3 --max-memory 1024

  # Settings from a file, strategy overridden on the command line
  searchclient -c client.yaml --greedy`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	flags.BoolVar(&opts.bfs, "bfs", false, "Use the BFS strategy")
	flags.BoolVar(&opts.dfs, "dfs", false, "Use the DFS strategy")
	flags.BoolVar(&opts.astar, "astar", false, "Use the A* strategy")
	flags.IntVar(&opts.wastar, "wastar", searchclient.DefaultWeight, "Use the WA* strategy with the given weight")
	flags.Lookup("wastar").NoOptDefVal = strconv.Itoa(searchclient.DefaultWeight)
	flags.BoolVar(&opts.greedy, "greedy", false, "Use the greedy strategy")
	flags.Float64Var(&opts.maxMemory, "max-memory", 0, "Maximum memory usage in MB (soft limit, default 2048)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (console or json)")
	cmd.MarkFlagsMutuallyExclusive(strategyFlags...)

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and flags.
// It also reports whether any layer picked a strategy.
func (a *App) resolveConfig(cmd *cobra.Command, opts *solveOptions) (config.Config, bool, error) {
	cfg := config.Default()
	chosen := false
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return config.Config{}, false, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		chosen = cfg.Strategy != config.Default().Strategy
	}
	before := cfg.Strategy
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, false, err
	}
	chosen = chosen || cfg.Strategy != before

	flags := cmd.Flags()
	for _, name := range strategyFlags {
		if flags.Changed(name) {
			cfg.Strategy = name
			chosen = true
		}
	}
	if flags.Changed("wastar") {
		cfg.Weight = opts.wastar
	}
	if flags.Changed("max-memory") {
		cfg.MaxMemoryMB = opts.maxMemory
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, err
	}
	return cfg, chosen, nil
}

func (a *App) solve(cmd *cobra.Command, opts *solveOptions) error {
	ctx := cmd.Context()

	cfg, chosen, err := a.resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: a.stderr})
	runID := uuid.NewString()

	client := protocol.NewClient(a.stdin, a.stdout)
	if err := client.Greet(); err != nil {
		return err
	}

	level, err := parser.Parse(client.In())
	if err != nil {
		return fmt.Errorf("failed to parse level: %w", err)
	}

	if !chosen {
		logging.Info().
			Add(logging.RunID(runID)).
			Msg("defaulting to BFS search, use --bfs, --dfs, --astar, --wastar or --greedy to set the strategy")
	}
	frontier, err := searchclient.NewFrontier(searchclient.Strategy(cfg.Strategy), cfg.Weight)
	if err != nil {
		return err
	}

	options := []searchclient.Option{
		searchclient.WithMaxMemory(cfg.MaxMemoryMB),
		searchclient.WithStatusInterval(cfg.StatusInterval),
		searchclient.WithSeed(cfg.Seed),
		searchclient.WithRunID(runID),
	}
	if probe, err := memory.NewProcessProbe(ctx); err != nil {
		logging.Warn().
			Add(logging.RunID(runID)).
			Add(logging.ErrorField(err)).
			Msg("memory probe unavailable, memory bound disabled")
	} else {
		options = append(options, searchclient.WithMemoryProbe(probe))
	}

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Str("level", level.Name)).
		Add(logging.Strategy(frontier.Name())).
		Msg("starting search")

	result, err := searchclient.Search(ctx, level.Initial, frontier, options...)
	if err != nil {
		if errors.Is(err, searchclient.ErrNoSolution) ||
			errors.Is(err, searchclient.ErrResourceExceeded) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			logging.Warn().
				Add(logging.RunID(runID)).
				Add(logging.Outcome(string(result.Outcome))).
				Add(logging.Str("reason", string(result.Reason))).
				Add(logging.ErrorField(err)).
				Msg("unable to solve level")
			return nil
		}
		return err
	}

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.PlanLength(len(result.Plan))).
		Add(logging.Generated(result.Generated())).
		Msg("found solution")

	if _, err := client.SendPlan(result.Plan); err != nil {
		return err
	}
	return nil
}
