package usecase

import (
	"regexp"
	"strings"

	"github.com/shelfprice/collector/internal/domain"
)

var glutenFreeClaim = regexp.MustCompile(`(?i)gluten free`)

// glutenIngredients are matched as case-insensitive substrings, so short
// entries such as "fu" or "malt" also hit unrelated words ("fudge",
// "maltodextrin").
var glutenIngredients = []string{
	"barley", "breading", "brewer's yeast", "bulgur", "durum", "farro",
	"faro", "spelt", "dinkel", "graham flour", "hydrolyzed wheat protein",
	"kamut", "malt", "malt extract", "malt syrup", "malt flavoring",
	"malt vinegar", "malted milk", "matzo", "matzo meal",
	"modified wheat starch", "oatmeal", "oat bran", "oat flour",
	"whole oats", "rye flour", "seitan", "semolina", "triticale",
	"wheat bran", "wheat flour", "wheat germ", "wheat starch", "atta",
	"einkorn", "emmer", "farina", "fu",
}

// ClassifyGlutenFree decides whether a detailed product document is gluten
// free. A "gluten free" claim in the description wins; otherwise the
// ingredient list is checked against glutenIngredients. Missing fields
// yield GlutenUnknown.
func ClassifyGlutenFree(res domain.FetchResult) domain.GlutenStatus {
	if !res.IsDocument() {
		return domain.GlutenUnknown
	}

	description, ok := res.Document.LookupString("detailed", "description")
	if !ok {
		return domain.GlutenUnknown
	}
	if glutenFreeClaim.MatchString(description) {
		return domain.GlutenFree
	}

	ingredients, ok := res.Document.LookupString("detailed", "ingredients")
	if !ok {
		return domain.GlutenUnknown
	}
	if ContainsGlutenIngredient(ingredients) {
		return domain.ContainsGluten
	}
	return domain.GlutenFree
}

// ContainsGlutenIngredient reports whether any denylisted ingredient occurs
// in the free-text ingredient list
func ContainsGlutenIngredient(ingredients string) bool {
	lower := strings.ToLower(ingredients)
	for _, ingredient := range glutenIngredients {
		if strings.Contains(lower, ingredient) {
			return true
		}
	}
	return false
}
