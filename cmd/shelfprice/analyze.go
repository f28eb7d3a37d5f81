package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/infrastructure/csvfile"
	"github.com/shelfprice/collector/internal/infrastructure/kroger"
	"github.com/shelfprice/collector/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <prices.csv>",
		Short: "Summarize the outcomes of a price run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := csvfile.ReadRows(args[0])
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), usecase.SummarizePrices(rows))
			return nil
		},
	}
}

func renderSummary(w io.Writer, s usecase.PriceSummary) {
	t := newTable(w)

	t.AppendHeader(table.Row{"Outcome", "Count"})
	t.AppendRows([]table.Row{
		{"Priced", s.Priced},
		{domain.OutcomeOutOfStock, s.OutOfStock},
		{domain.OutcomeNotFound, s.NotFound},
		{domain.OutcomeDNE, s.DNE},
		{domain.OutcomeFind, s.Find},
		{domain.OutcomeNoPrice, s.NoPrice},
		{domain.OutcomeHTTPError, s.HTTPError},
		{"Other", s.Other},
	})
	t.AppendFooter(table.Row{"Total", s.Total})
	t.Render()

	if s.Priced == 0 {
		return
	}
	p := newTable(w)
	p.AppendHeader(table.Row{"Min", "Max", "Mean"})
	p.AppendRow(table.Row{s.Min.StringFixed(2), s.Max.StringFixed(2), s.Mean.StringFixed(2)})
	p.Render()
}

// newTable renders headers and footers as written instead of upper-cased
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

func (a *app) outOfStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "out-of-stock <prices.csv> <output.csv>",
		Short: "Write the ids of out of stock items from a price run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := csvfile.ReadRows(args[0])
			if err != nil {
				return err
			}
			ids := usecase.OutOfStockIDs(rows)
			if err := csvfile.WriteAll(args[1], usecase.ProductIDHeader, singleColumn(ids)); err != nil {
				return err
			}
			a.logger.Info("wrote out of stock ids", zap.Int("count", len(ids)), zap.String("output", args[1]))
			return nil
		},
	}
}

func (a *app) krogerIDsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kroger-ids <urls.csv> <output.csv>",
		Short: "Extract Kroger product ids from product page URLs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := csvfile.ReadIdentifiers(args[0])
			if err != nil {
				return err
			}

			ids := make([]string, len(urls))
			for i, u := range urls {
				id, err := kroger.ProductIDFromURL(u)
				if err != nil {
					a.logger.Warn("no product id in url", zap.Int("item", i+1), zap.String("url", u))
					id = domain.OutcomeNA
				}
				ids[i] = id
			}
			return csvfile.WriteAll(args[1], usecase.ProductIDHeader, singleColumn(ids))
		},
	}
}

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <input.csv>",
		Short: "Count Walmart ids whose full lookup does not answer 200",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := csvfile.ReadIdentifiers(args[0])
			if err != nil {
				return err
			}
			fails, err := usecase.CountFailedLookups(cmd.Context(), ids, a.walmartClient())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d lookups failed\n", fails, len(ids))
			return nil
		},
	}
}

func singleColumn(values []string) [][]string {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return rows
}
