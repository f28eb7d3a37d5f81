package domain

// Sentinel values written in place of a price
const (
	OutcomeOutOfStock = "Out of Stock"
	OutcomeNotFound   = "Product Not Found"
	OutcomeDNE        = "DNE"
	OutcomeFind       = "FIND"
	OutcomeHTTPError  = "HTTP Error Occurred"
	OutcomeNoPrice    = "No price"
	OutcomeNA         = "NA"
)

// NoURL is written when a product URL cannot be resolved
const NoURL = "No URL"

// PriceRecord is one row of a price collection run
type PriceRecord struct {
	ID    string `json:"id"`
	Price string `json:"price"`
	URL   string `json:"url,omitempty"`
}

// GlutenStatus is the gluten-free classification of a product
type GlutenStatus int

const (
	GlutenUnknown GlutenStatus = iota
	GlutenFree
	ContainsGluten
)

// String renders the status the way it is written to CSV
func (s GlutenStatus) String() string {
	switch s {
	case GlutenFree:
		return "True"
	case ContainsGluten:
		return "False"
	default:
		return OutcomeNA
	}
}

// MarshalJSON renders true, false or "NA"
func (s GlutenStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case GlutenFree:
		return []byte("true"), nil
	case ContainsGluten:
		return []byte("false"), nil
	default:
		return []byte(`"NA"`), nil
	}
}

// GlutenFreeRecord is one row of a gluten-free labeling run
type GlutenFreeRecord struct {
	ID             string       `json:"id"`
	Classification GlutenStatus `json:"glutenFree"`
}

// NutritionRecord holds the macros extracted for one product. Nil fields
// were not reported by the retailer.
type NutritionRecord struct {
	ID           string  `json:"barcodeData"`
	Fat          *int    `json:"fat"`
	FatUnits     *string `json:"fatUnits"`
	Carbs        *int    `json:"carbs"`
	CarbsUnits   *string `json:"carbsUnits"`
	Protein      *int    `json:"protein"`
	ProteinUnits *string `json:"proteinUnits"`
	Calories     *int    `json:"calories"`
}
