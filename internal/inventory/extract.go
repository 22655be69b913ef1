package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

// Fixed vocabularies for constraint extraction. Matching is plain substring
// over the lower-cased message, mirroring how customers actually write
// ("got any toyotas?").
var makeVocabulary = []string{
	"toyota", "honda", "ford", "chevrolet", "chevy", "nissan", "hyundai",
	"kia", "volkswagen", "subaru", "mazda", "jeep", "bmw", "mercedes",
	"audi", "lexus", "tesla", "dodge", "gmc", "ram",
}

var modelVocabulary = []string{
	"camry", "corolla", "rav4", "highlander", "tacoma", "tundra",
	"civic", "accord", "cr-v", "crv", "pilot", "odyssey",
	"f-150", "f150", "escape", "explorer", "mustang", "bronco",
	"silverado", "equinox", "tahoe", "malibu",
	"altima", "rogue", "sentra", "pathfinder",
	"elantra", "tucson", "sonata", "santa fe",
	"sportage", "sorento", "telluride",
	"outback", "forester", "crosstrek",
	"cx-5", "cx-9", "wrangler", "grand cherokee",
	"model 3", "model y", "x5", "3 series",
}

// normalizes aliases back to the canonical make/model stored in the database.
var makeAliases = map[string]string{
	"chevy": "chevrolet",
}

var modelAliases = map[string]string{
	"crv":  "cr-v",
	"f150": "f-150",
}

var priceToken = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s*(k|K)?`)

// ExtractCriteria pulls make, model, and a price range out of free text.
// The price range comes from the first two numeric tokens; "k" and ",000"
// shorthand are normalized and the smaller value becomes the minimum.
func ExtractCriteria(text string) Criteria {
	normalized := strings.ToLower(text)
	c := Criteria{}

	for _, mk := range makeVocabulary {
		if strings.Contains(normalized, mk) {
			if canonical, ok := makeAliases[mk]; ok {
				mk = canonical
			}
			c.Make = mk
			break
		}
	}

	for _, md := range modelVocabulary {
		if strings.Contains(normalized, md) {
			if canonical, ok := modelAliases[md]; ok {
				md = canonical
			}
			c.Model = md
			break
		}
	}

	low, high, n := extractPriceRange(normalized)
	switch n {
	case 1:
		c.MaxPrice = high
	case 2:
		c.MinPrice = low
		c.MaxPrice = high
	}

	return c
}

func extractPriceRange(text string) (low, high float64, count int) {
	var values []float64
	for _, match := range priceToken.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if match[2] != "" {
			value *= 1000
		}
		// Bare small numbers ("2 cars", "4 doors") are counts, not prices.
		if value < 1000 {
			continue
		}
		values = append(values, value)
		if len(values) == 2 {
			break
		}
	}

	switch len(values) {
	case 0:
		return 0, 0, 0
	case 1:
		return values[0], values[0], 1
	default:
		if values[0] > values[1] {
			values[0], values[1] = values[1], values[0]
		}
		return values[0], values[1], 2
	}
}
