package usecase

import (
	"context"
	"strconv"

	"github.com/shelfprice/collector/internal/domain"
)

// Output headers, one per run mode
var (
	PriceHeader        = []string{"Product Id", "Price"}
	PriceWithURLHeader = []string{"Product Id", "Price", "Url"}
	GlutenFreeHeader   = []string{"Product Id", "Gluten Free"}
	NutritionHeader    = []string{"barcodeData", "fat", "fatUnits", "carbs", "carbsUnits", "protein", "proteinUnits", "calories"}
	ProductURLHeader   = []string{"Product Id", "Url"}
	ProductIDHeader    = []string{"Product Id"}
)

// Job turns one identifier into one output row
type Job struct {
	Name   string
	Header []string
	Row    func(ctx context.Context, id string) ([]string, error)
}

// WalmartPriceJob collects Walmart prices, optionally with the product URL
// of items that need a manual lookup
func (s *ProductService) WalmartPriceJob(withURL bool) Job {
	header := PriceHeader
	if withURL {
		header = PriceWithURLHeader
	}
	return Job{
		Name:   "walmart-prices",
		Header: header,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.WalmartPrice(ctx, id)
			if err != nil {
				return nil, err
			}
			if withURL {
				return []string{rec.ID, rec.Price, rec.URL}, nil
			}
			return []string{rec.ID, rec.Price}, nil
		},
	}
}

// KrogerPriceJob collects Kroger regular prices
func (s *ProductService) KrogerPriceJob() Job {
	return Job{
		Name:   "kroger-prices",
		Header: PriceHeader,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.KrogerPrice(ctx, id)
			if err != nil {
				return nil, err
			}
			return []string{rec.ID, rec.Price}, nil
		},
	}
}

// MixedPriceJob collects prices from whichever retailer the id belongs to
func (s *ProductService) MixedPriceJob() Job {
	return Job{
		Name:   "mixed-prices",
		Header: PriceHeader,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.Price(ctx, id)
			if err != nil {
				return nil, err
			}
			return []string{rec.ID, rec.Price}, nil
		},
	}
}

// GlutenFreeJob labels Walmart items as gluten free
func (s *ProductService) GlutenFreeJob() Job {
	return Job{
		Name:   "gluten-free",
		Header: GlutenFreeHeader,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.GlutenFree(ctx, id)
			if err != nil {
				return nil, err
			}
			return []string{rec.ID, rec.Classification.String()}, nil
		},
	}
}

// NutritionJob extracts macros of Walmart items
func (s *ProductService) NutritionJob() Job {
	return Job{
		Name:   "nutrition",
		Header: NutritionHeader,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.Nutrition(ctx, id)
			if err != nil {
				return nil, err
			}
			return NutritionRow(rec), nil
		},
	}
}

// ProductURLJob resolves Walmart product pages
func (s *ProductService) ProductURLJob() Job {
	return Job{
		Name:   "product-urls",
		Header: ProductURLHeader,
		Row: func(ctx context.Context, id string) ([]string, error) {
			rec, err := s.ProductURL(ctx, id)
			if err != nil {
				return nil, err
			}
			return []string{rec.ID, rec.URL}, nil
		},
	}
}

// NutritionRow renders a record in NutritionHeader order; nil fields are empty
func NutritionRow(rec domain.NutritionRecord) []string {
	return []string{
		rec.ID,
		formatInt(rec.Fat), formatString(rec.FatUnits),
		formatInt(rec.Carbs), formatString(rec.CarbsUnits),
		formatInt(rec.Protein), formatString(rec.ProteinUnits),
		formatInt(rec.Calories),
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
