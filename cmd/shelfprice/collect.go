package main

import (
	"context"

	"github.com/shelfprice/collector/internal/infrastructure/csvfile"
	"github.com/shelfprice/collector/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) pricesCmd() *cobra.Command {
	var withURL bool
	cmd := &cobra.Command{
		Use:   "prices <input.csv> <output.csv>",
		Short: "Collect Walmart store prices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			walmart := a.walmartClient()
			svc := usecase.NewProductService(walmart, walmart, nil, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.WalmartPriceJob(withURL))
		},
	}
	cmd.Flags().BoolVar(&withURL, "with-url", false, "add the product URL of out of stock and unpriced items")
	return cmd
}

func (a *app) krogerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kroger <input.csv> <output.csv>",
		Short: "Collect Kroger regular prices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kroger, err := a.krogerFetcher()
			if err != nil {
				return err
			}
			svc := usecase.NewProductService(nil, nil, kroger, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.KrogerPriceJob())
		},
	}
}

func (a *app) mixedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mixed <input.csv> <output.csv>",
		Short: "Collect prices for a mix of Walmart and Kroger identifiers",
		Long: `Identifiers of 13 characters are looked up with Kroger, "NA" is copied
through and everything else is looked up with Walmart.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kroger, err := a.krogerFetcher()
			if err != nil {
				return err
			}
			walmart := a.walmartClient()
			svc := usecase.NewProductService(walmart, walmart, kroger, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.MixedPriceJob())
		},
	}
}

func (a *app) glutenFreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gluten-free <input.csv> <output.csv>",
		Short: "Label Walmart items as gluten free",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			walmart := a.walmartClient()
			svc := usecase.NewProductService(walmart, walmart, nil, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.GlutenFreeJob())
		},
	}
}

func (a *app) nutritionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nutrition <input.csv> <output.csv>",
		Short: "Extract fat, carbs, protein and calories of Walmart items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			walmart := a.walmartClient()
			svc := usecase.NewProductService(walmart, walmart, nil, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.NutritionJob())
		},
	}
}

func (a *app) urlsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urls <input.csv> <output.csv>",
		Short: "Resolve the product page URL of Walmart items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			walmart := a.walmartClient()
			svc := usecase.NewProductService(walmart, walmart, nil, a.logger)
			return a.collect(cmd.Context(), args[0], args[1], svc.ProductURLJob())
		},
	}
}

// collect runs job over the identifiers in input and writes rows to output
func (a *app) collect(ctx context.Context, input, output string, job usecase.Job) error {
	ids, err := csvfile.ReadIdentifiers(input)
	if err != nil {
		return err
	}

	out, err := csvfile.Create(output, job.Header)
	if err != nil {
		return err
	}

	collector := usecase.NewCollector(usecase.CollectorConfig{
		Workers: a.cfg.Collector.Workers,
	}, a.logger.Named("collector"))

	a.logger.Debug("collecting", zap.String("input", input), zap.String("output", output))

	written, runErr := collector.Run(ctx, ids, job, out)
	closeErr := out.Close()

	if runErr != nil {
		a.logger.Info("partial output kept",
			zap.String("output", output),
			zap.Int("written", written),
			zap.Int("items", len(ids)))
		return runErr
	}
	return closeErr
}
