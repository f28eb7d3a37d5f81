package usecase

import (
	"context"
	"fmt"

	"github.com/shelfprice/collector/internal/domain"
	"go.uber.org/zap"
)

// ProductService fetches products and runs the classifiers over them.
// Every method returns a record for recoverable outcomes; a non-nil error
// means the run must stop.
type ProductService struct {
	walmart domain.ProductFetcher
	urls    domain.URLResolver
	kroger  domain.ProductFetcher
	logger  *zap.Logger
}

// NewProductService creates a service. kroger may be nil when no Kroger
// credentials are configured; Kroger lookups then fail with
// domain.ErrMissingCredentials.
func NewProductService(
	walmart domain.ProductFetcher,
	urls domain.URLResolver,
	kroger domain.ProductFetcher,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		walmart: walmart,
		urls:    urls,
		kroger:  kroger,
		logger:  logger,
	}
}

// WalmartPrice collects the store price of a Walmart item
func (s *ProductService) WalmartPrice(ctx context.Context, id string) (domain.PriceRecord, error) {
	res, err := s.walmart.FetchProduct(ctx, id, domain.FieldsStore)
	if err != nil {
		return domain.PriceRecord{ID: id}, err
	}
	return ClassifyWalmartPrice(ctx, res, id, s.urls)
}

// KrogerPrice collects the regular price of a Kroger product
func (s *ProductService) KrogerPrice(ctx context.Context, id string) (domain.PriceRecord, error) {
	if s.kroger == nil {
		return domain.PriceRecord{ID: id}, fmt.Errorf("%w: kroger client not configured", domain.ErrMissingCredentials)
	}
	res, err := s.kroger.FetchProduct(ctx, id, domain.FieldsStore)
	if err != nil {
		return domain.PriceRecord{ID: id}, err
	}
	return ClassifyKrogerPrice(res, id), nil
}

// Price dispatches on the identifier shape. The URL of Walmart records is
// kept; mixed runs write only the price.
func (s *ProductService) Price(ctx context.Context, id string) (domain.PriceRecord, error) {
	switch RetailerFor(id) {
	case RetailerKroger:
		return s.KrogerPrice(ctx, id)
	case RetailerWalmart:
		return s.WalmartPrice(ctx, id)
	default:
		return domain.PriceRecord{ID: id, Price: domain.OutcomeNA}, nil
	}
}

// GlutenFree labels a Walmart item. An HTTP error status stops the run.
func (s *ProductService) GlutenFree(ctx context.Context, id string) (domain.GlutenFreeRecord, error) {
	res, err := s.fetchForFlagging(ctx, id, domain.FieldsDetailed)
	if err != nil {
		return domain.GlutenFreeRecord{ID: id}, err
	}
	return domain.GlutenFreeRecord{ID: id, Classification: ClassifyGlutenFree(res)}, nil
}

// Nutrition extracts the macros of a Walmart item. An HTTP error status
// stops the run.
func (s *ProductService) Nutrition(ctx context.Context, id string) (domain.NutritionRecord, error) {
	res, err := s.fetchForFlagging(ctx, id, domain.FieldsNutrition)
	if err != nil {
		return domain.NutritionRecord{ID: id}, err
	}
	return ExtractNutrition(res, id), nil
}

// ProductURL resolves the product page of a Walmart item
func (s *ProductService) ProductURL(ctx context.Context, id string) (domain.PriceRecord, error) {
	url, err := s.urls.ProductURL(ctx, id)
	if err != nil {
		return domain.PriceRecord{ID: id}, err
	}
	return domain.PriceRecord{ID: id, URL: url}, nil
}

func (s *ProductService) fetchForFlagging(ctx context.Context, id string, fields domain.FieldSet) (domain.FetchResult, error) {
	res, err := s.walmart.FetchProduct(ctx, id, fields)
	if err != nil {
		return res, err
	}
	if res.Kind == domain.KindHTTPError {
		return res, fmt.Errorf("%w: status %d for product %s", domain.ErrHTTPFailure, res.StatusCode, id)
	}
	return res, nil
}
