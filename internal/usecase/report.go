package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/shelfprice/collector/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceSummary counts the outcomes of a price collection output
type PriceSummary struct {
	Total      int
	Priced     int
	OutOfStock int
	NotFound   int
	DNE        int
	Find       int
	NoPrice    int
	HTTPError  int
	Other      int
	Min        decimal.Decimal
	Max        decimal.Decimal
	Mean       decimal.Decimal
}

// SummarizePrices tallies rows of a price output (header already skipped).
// The price is the second column; rows without one count as Other.
func SummarizePrices(rows [][]string) PriceSummary {
	var s PriceSummary
	sum := decimal.Zero

	for _, row := range rows {
		s.Total++
		if len(row) < 2 {
			s.Other++
			continue
		}

		switch price := strings.TrimSpace(row[1]); price {
		case domain.OutcomeOutOfStock:
			s.OutOfStock++
		case domain.OutcomeNotFound:
			s.NotFound++
		case domain.OutcomeDNE:
			s.DNE++
		case domain.OutcomeFind:
			s.Find++
		case domain.OutcomeNoPrice:
			s.NoPrice++
		case domain.OutcomeHTTPError:
			s.HTTPError++
		default:
			d, err := decimal.NewFromString(strings.TrimPrefix(price, "$"))
			if err != nil {
				s.Other++
				continue
			}
			if s.Priced == 0 || d.LessThan(s.Min) {
				s.Min = d
			}
			if s.Priced == 0 || d.GreaterThan(s.Max) {
				s.Max = d
			}
			sum = sum.Add(d)
			s.Priced++
		}
	}

	if s.Priced > 0 {
		s.Mean = sum.Div(decimal.NewFromInt(int64(s.Priced))).Round(2)
	}
	return s
}

// OutOfStockIDs returns the ids of rows priced "Out of Stock", in order
func OutOfStockIDs(rows [][]string) []string {
	var ids []string
	for _, row := range rows {
		if len(row) >= 2 && row[1] == domain.OutcomeOutOfStock {
			ids = append(ids, row[0])
		}
	}
	return ids
}

// StatusChecker reports the HTTP status of a product lookup
type StatusChecker interface {
	Status(ctx context.Context, id string) (int, error)
}

// CountFailedLookups counts ids whose lookup does not answer 200
func CountFailedLookups(ctx context.Context, ids []string, checker StatusChecker) (int, error) {
	fails := 0
	for i, id := range ids {
		status, err := checker.Status(ctx, id)
		if err != nil {
			return fails, &AbortError{Index: i + 1, ID: id, Err: err}
		}
		if status != http.StatusOK {
			fails++
		}
	}
	return fails, nil
}
