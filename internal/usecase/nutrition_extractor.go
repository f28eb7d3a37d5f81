package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shelfprice/collector/internal/domain"
)

// Walmart keyNutrients names for the macros we keep
const (
	nutrientTotalFat   = "totalFat"
	nutrientTotalCarbs = "totalCarbs"
	nutrientProtein    = "protein"

	defaultNutrientUnit = "g"
)

var (
	numericToken = regexp.MustCompile(`\d+\.?\d?`)
	unitSuffix   = regexp.MustCompile(`([a-zA-Z]+)\s*$`)
)

// ExtractNutrition maps a nutritionFacts document to fat, carbs, protein
// and calories. Amounts are rounded half-up; an amount given as "<1g"
// counts as 0. Anything the document does not report stays nil.
func ExtractNutrition(res domain.FetchResult, id string) domain.NutritionRecord {
	record := domain.NutritionRecord{ID: id}
	if !res.IsDocument() {
		return record
	}

	facts, ok := res.Document.Lookup("nutritionFacts")
	if !ok {
		return record
	}
	factsDoc, ok := facts.(map[string]interface{})
	if !ok {
		return record
	}
	doc := domain.Document(factsDoc)

	if calories, ok := doc.LookupString("calorieInformation", "caloriesPerServing"); ok {
		if n, ok := firstNumber(calories); ok {
			record.Calories = &n
		}
	}

	nutrients, _ := doc.Lookup("keyNutrients")
	list, _ := nutrients.([]interface{})
	for _, entry := range list {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		nutrient := domain.Document(fields)

		amount, ok := nutrient.LookupString("amountPerServing")
		if !ok {
			continue
		}
		name, _ := nutrient.LookupString("name")

		n, ok := roundedAmount(amount)
		if !ok {
			continue
		}
		unit := amountUnit(amount)

		switch name {
		case nutrientTotalFat:
			record.Fat, record.FatUnits = &n, &unit
		case nutrientTotalCarbs:
			record.Carbs, record.CarbsUnits = &n, &unit
		case nutrientProtein:
			record.Protein, record.ProteinUnits = &n, &unit
		}
	}

	return record
}

// roundedAmount reads a nutrient amount. Amounts containing "<" are
// reported as 0.
func roundedAmount(amount string) (int, bool) {
	if strings.Contains(amount, "<") {
		return 0, true
	}
	return firstNumber(amount)
}

// firstNumber reads the first numeric token of s and rounds it half-up
func firstNumber(s string) (int, bool) {
	token := numericToken.FindString(s)
	if token == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return roundHalfUp(f), true
}

// roundHalfUp rounds non-negative amounts with .5 going up (2.5 -> 3)
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// amountUnit returns the trailing unit of an amount such as "2.5g" or "140 mg"
func amountUnit(amount string) string {
	m := unitSuffix.FindStringSubmatch(strings.TrimSpace(amount))
	if m == nil {
		return defaultNutrientUnit
	}
	return m[1]
}
