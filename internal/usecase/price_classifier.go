package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shelfprice/collector/internal/domain"
)

// krogerIDLength is the length of a Kroger product id; Walmart item ids are
// shorter numeric strings
const krogerIDLength = 13

// Retailer identifies which API serves an identifier
type Retailer int

const (
	RetailerNone Retailer = iota
	RetailerWalmart
	RetailerKroger
)

func (r Retailer) String() string {
	switch r {
	case RetailerWalmart:
		return "walmart"
	case RetailerKroger:
		return "kroger"
	default:
		return "none"
	}
}

// RetailerFor picks the retailer by identifier shape: "NA" placeholders
// have none, 13 characters means Kroger, anything else is Walmart.
func RetailerFor(id string) Retailer {
	switch {
	case id == domain.OutcomeNA:
		return RetailerNone
	case len(id) == krogerIDLength:
		return RetailerKroger
	default:
		return RetailerWalmart
	}
}

// errorOutcome maps fetch sentinels to their price outcome. ok is false for
// results that carry (or stand in for) a document.
func errorOutcome(res domain.FetchResult) (string, bool) {
	switch res.Kind {
	case domain.KindNotFound:
		return domain.OutcomeNotFound, true
	case domain.KindHTTPError:
		return domain.OutcomeHTTPError, true
	default:
		return "", false
	}
}

// ClassifyWalmartPrice reduces a Walmart store document to a price.
//
// The chain is store.price.list, then store.price.displayPrice, then
// store.isInStock. When no price is present the product URL is resolved so
// the price can be collected by hand: "Out of Stock" for items not in stock,
// "FIND" for items in stock. A missing store object is "DNE".
func ClassifyWalmartPrice(ctx context.Context, res domain.FetchResult, id string, urls domain.URLResolver) (domain.PriceRecord, error) {
	record := domain.PriceRecord{ID: id}

	if outcome, ok := errorOutcome(res); ok {
		record.Price = outcome
		return record, nil
	}

	doc := res.Document
	if _, ok := doc.Lookup("store"); !ok {
		record.Price = domain.OutcomeDNE
		return record, nil
	}

	if price, ok := doc.LookupString("store", "price", "list"); ok {
		record.Price = price
		return record, nil
	}
	if price, ok := doc.LookupString("store", "price", "displayPrice"); ok {
		record.Price = price
		return record, nil
	}

	inStock, ok := doc.Lookup("store", "isInStock")
	if !ok {
		record.Price = domain.OutcomeDNE
		return record, nil
	}

	url, err := urls.ProductURL(ctx, id)
	if err != nil {
		return record, err
	}
	record.URL = url

	if truthy(inStock) {
		record.Price = domain.OutcomeFind
	} else {
		record.Price = domain.OutcomeOutOfStock
	}
	return record, nil
}

// ClassifyKrogerPrice reduces a Kroger product document to its regular price
func ClassifyKrogerPrice(res domain.FetchResult, id string) domain.PriceRecord {
	record := domain.PriceRecord{ID: id}

	if outcome, ok := errorOutcome(res); ok {
		record.Price = outcome
		return record
	}

	doc := res.Document
	if _, ok := doc.Lookup("data", "items", "0"); !ok {
		record.Price = domain.OutcomeDNE
		return record
	}

	price, ok := doc.LookupString("data", "items", "0", "price", "regular")
	if !ok {
		record.Price = domain.OutcomeNoPrice
		return record
	}

	record.Price = price
	return record
}

// truthy follows JSON truthiness: false, 0, "" and null are false
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		return strings.Trim(val.String(), "0.-") != ""
	case float64:
		return val != 0
	default:
		return true
	}
}
