package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vanshika/warmpath/internal/config"
	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/generator"
	"github.com/vanshika/warmpath/internal/graph"
	"github.com/vanshika/warmpath/internal/hints"
	"github.com/vanshika/warmpath/internal/logging"
	"github.com/vanshika/warmpath/internal/repository"
	"github.com/vanshika/warmpath/internal/service"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dataset  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "warmpathctl",
		Short:         "Generate, ingest and search introduction-path networks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "search a JSON dataset instead of the graph database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newDatagenCmd(opts))
	root.AddCommand(newIngestCmd(opts))
	root.AddCommand(newFindCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newNetworkCmd(opts))
	return root
}

// app bundles what a subcommand needs to reach the intro service.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	repo    service.NetworkRepository
	service *service.IntroService
	close   func()
}

func loadApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logCfg := cfg.Logging
	logCfg.Level = opts.logLevel
	logger := logging.NewWithWriter(logCfg, cmd.ErrOrStderr()).With("component", "warmpathctl")

	a := &app{cfg: cfg, logger: logger, close: func() {}}
	if opts.dataset != "" {
		store, err := repository.LoadSnapshotFile(opts.dataset)
		if err != nil {
			return nil, err
		}
		a.repo = store
	} else {
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
			QueryTimeout:   cfg.Graph.QueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect graph: %w", err)
		}
		a.repo = repository.New(client)
		a.close = func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}

	var extractor hints.Extractor
	if cfg.AI.HintsEnabled {
		extractor = hints.NewOpenAIExtractor(cfg.AI, logger)
	}
	a.service = service.NewIntroService(a.repo, extractor, cfg.Search, logger)
	return a, nil
}

func newDatagenCmd(_ *rootOptions) *cobra.Command {
	cfg := generator.DefaultConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "datagen",
		Short: "Write a synthetic contact network as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			ds, err := generator.New(cfg).Generate(cmd.Context())
			if err != nil {
				return fmt.Errorf("generate dataset: %w", err)
			}
			if err := generator.WriteDataset(ds, out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d users, %d contacts, %d relationships, %d teams, %d shares in %s\n",
				out, len(ds.Users), len(ds.Contacts), len(ds.Relationships), len(ds.Teams), len(ds.Shares), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "./seed-data/dataset.json", "output file")
	cmd.Flags().IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "number of users")
	cmd.Flags().IntVar(&cfg.ContactsPerUser, "contacts", cfg.ContactsPerUser, "contacts per user")
	cmd.Flags().IntVar(&cfg.NumTeams, "teams", cfg.NumTeams, "number of teams")
	cmd.Flags().IntVar(&cfg.TeamSize, "team-size", cfg.TeamSize, "members per team")
	cmd.Flags().Float64Var(&cfg.PeerChance, "peer-chance", cfg.PeerChance, "probability two nearby contacts know each other")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	return cmd
}

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var (
		workers int
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <dataset.json>",
		Short: "Load a JSON dataset into the graph database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := repository.LoadSnapshotFile(args[0])
			if err != nil {
				return err
			}

			target := *opts
			var svc *service.IntroService
			if dryRun {
				// Validate against an empty in-memory store.
				svc = service.NewIntroService(repository.NewSnapshotStore(domain.Dataset{}), nil, config.SearchConfig{}, logging.Discard())
			} else {
				target.dataset = ""
				a, err := loadApp(cmd.Context(), cmd, &target)
				if err != nil {
					return err
				}
				defer a.close()
				svc = a.service
			}

			start := time.Now()
			stats, err := service.NewBulkIngestor(svc, workers).IngestDataset(cmd.Context(), source.Dataset())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ingested %d users, %d contacts, %d teams, %d relationships, %d shares in %s\n",
				stats.Users, stats.Contacts, stats.Teams, stats.Relationships, stats.Shares, time.Since(start).Round(time.Millisecond))
			return err
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent writers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the dataset without writing to the graph database")
	return cmd
}

func newFindCmd(opts *rootOptions) *cobra.Command {
	var params service.FindPathsParams

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Rank introduction paths to a known contact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			paths, err := a.service.FindPaths(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), paths)
		},
	}
	cmd.Flags().StringVar(&params.UserID, "user", "", "searching user id")
	cmd.Flags().StringVar(&params.TargetContactID, "target", "", "target contact id")
	cmd.Flags().IntVar(&params.MaxHops, "max-hops", 0, "maximum path length (0 uses the default)")
	cmd.Flags().IntVar(&params.TopK, "top-k", 0, "number of paths to return (0 uses the default)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var params service.SearchPathsParams

	cmd := &cobra.Command{
		Use:   "search <description>",
		Short: "Find the contact best matching a description and rank paths to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			params.TargetDescription = args[0]
			result, err := a.service.SearchPaths(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&params.UserID, "user", "", "searching user id")
	cmd.Flags().IntVar(&params.MaxHops, "max-hops", 0, "maximum path length (0 uses the default)")
	cmd.Flags().IntVar(&params.TopK, "top-k", 0, "number of paths to return (0 uses the default)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newNetworkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "network <userId>",
		Short: "Print the graph a user's searches run over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			view, err := a.service.Network(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
