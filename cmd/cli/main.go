package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/internal/seed"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/core/services"
	applog "github.com/wadjakorntonsri/knowhub/pkg/logger"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

var (
	dbURL    string
	seedPath string
	logLevel string

	itemQuery ports.ItemQuery
	metric    string
	top       int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Inspect and manage the knowledge hub catalog",
	Long: `hubctl seeds, exports and queries the catalog the server reads.

With no --db (and no DATABASE_URL) it works on the in-memory catalog built
from the seed file, which is handy for checking a seed before loading it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = applog.New("local", logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// seedCmd replaces the SQL catalog with the contents of a seed file
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a seed file into the SQL catalog",
	Long: `Validates the seed file and replaces every catalog table in one
transaction. Without --seed the embedded catalog is loaded.

Example:
  hubctl seed --db file:hub.sqlite --seed ./catalog.yaml`,
	RunE: runSeed,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the whole catalog as JSON",
	RunE:  runExport,
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List content items matching the given filters",
	RunE:  runItems,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank authors by reactions or views",
	RunE:  runLeaderboard,
}

func init() {
	cfg := config.Load()

	rootCmd.PersistentFlags().StringVar(&dbURL, "db", cfg.DatabaseURL, "Catalog database URL (empty for in-memory)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", cfg.SeedPath, "Seed YAML file (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	itemsCmd.Flags().StringVar(&itemQuery.Category, "category", "", "Filter by category")
	itemsCmd.Flags().StringVar(&itemQuery.Tag, "tag", "", "Filter by tag")
	itemsCmd.Flags().StringVar(&itemQuery.Type, "type", "", "Filter by content type")
	itemsCmd.Flags().StringVar(&itemQuery.AuthorID, "author", "", "Filter by author id")
	itemsCmd.Flags().StringVar(&itemQuery.Year, "year", "", "Filter by year (YYYY)")
	itemsCmd.Flags().StringVar(&itemQuery.Month, "month", "", "Filter by month (1-12), needs --year")
	itemsCmd.Flags().StringVarP(&itemQuery.Text, "query", "q", "", "Free-text search")

	leaderboardCmd.Flags().StringVar(&metric, "metric", "reactions", "Score metric: reactions or views")
	leaderboardCmd.Flags().IntVar(&top, "top", 10, "Number of authors to show")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(leaderboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return errors.New("seed needs a SQL catalog: pass --db or set DATABASE_URL")
	}
	cat, err := seed.Load(seedPath)
	if err != nil {
		return err
	}

	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer repo.Close()

	if err := repo.Seed(cmd.Context(), cat); err != nil {
		return err
	}
	logger.Info("Catalog seeded", zap.String("db", dbURL), zap.Int("items", len(cat.Items)))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d authors, %d items, %d products\n",
		len(cat.Authors), len(cat.Items), len(cat.Products))
	return nil
}

func openCatalog(ctx context.Context) (ports.CatalogProvider, func() error, error) {
	return repository.Open(ctx, dbURL, seedPath, logger)
}

func runExport(cmd *cobra.Command, args []string) error {
	provider, closeFn, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	cat, err := provider.Dump(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(cat)
}

func runItems(cmd *cobra.Command, args []string) error {
	provider, closeFn, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	items, err := services.NewCatalogService(provider, logger).ListItems(cmd.Context(), itemQuery)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTYPE\tTITLE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Date, it.Category, it.Type, it.Title)
	}
	return tw.Flush()
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	provider, closeFn, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := services.NewCatalogService(provider, logger).Leaderboard(cmd.Context(), metric, top)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tAUTHOR\tSCORE\tITEMS\tTIER")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", e.Rank, e.AuthorName, e.TotalScore, e.ItemCount, e.Tier)
	}
	return tw.Flush()
}
