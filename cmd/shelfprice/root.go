package main

import (
	"fmt"

	"github.com/shelfprice/collector/config"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/infrastructure/cache"
	"github.com/shelfprice/collector/internal/infrastructure/kroger"
	"github.com/shelfprice/collector/internal/infrastructure/logging"
	"github.com/shelfprice/collector/internal/infrastructure/walmart"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has
// loaded configuration
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	workers int
	debug   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shelfprice",
		Short: "Collect grocery prices and product attributes from Walmart and Kroger",
		Long: `shelfprice reads product identifiers from the first column of a CSV file,
looks each one up with the retailer and writes one row per identifier to an
output CSV. Rows are flushed as they are written; when a run stops early it
reports the item number to resume from.

Kroger commands need CLIENT_ID and CLIENT_SECRET in the environment or in a
.env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Collector.Workers = a.workers
			}
			if a.debug {
				cfg.Log.Level = "debug"
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().IntVarP(&a.workers, "workers", "w", 1, "number of lookups in flight (output order is kept)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log debug messages and HTTP traffic")

	root.AddCommand(
		a.pricesCmd(),
		a.krogerCmd(),
		a.mixedCmd(),
		a.glutenFreeCmd(),
		a.nutritionCmd(),
		a.urlsCmd(),
		a.statsCmd(),
		a.outOfStockCmd(),
		a.krogerIDsCmd(),
		a.probeCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) walmartClient() *walmart.Client {
	c := a.cfg.Walmart
	client := walmart.NewClient(walmart.Options{
		BaseURL:   c.BaseURL,
		WebURL:    c.WebURL,
		StoreID:   c.StoreID,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
		Burst:     c.Burst,
	}, a.logger.Named("walmart"))
	client.SetDebug(a.debug)
	return client
}

func (a *app) krogerClient() (*kroger.Client, error) {
	c := a.cfg.Kroger
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	client, err := kroger.NewClient(kroger.Options{
		BaseURL:      c.BaseURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		LocationID:   c.LocationID,
		Scope:        c.Scope,
		Timeout:      c.Timeout,
		RateLimit:    c.RateLimit,
		Burst:        c.Burst,
	}, cache.NewMemoryCache(), a.logger.Named("kroger"))
	if err != nil {
		return nil, err
	}
	client.SetDebug(a.debug)
	return client, nil
}

// krogerFetcher returns nil, not a typed nil, when Kroger is unavailable
func (a *app) krogerFetcher() (domain.ProductFetcher, error) {
	client, err := a.krogerClient()
	if err != nil {
		return nil, err
	}
	return client, nil
}
