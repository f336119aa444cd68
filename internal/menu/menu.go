// Package menu holds the static Panda Sushi catalog: dish descriptions,
// prices, and the ingredient vocabulary the modifier extractor recognizes.
package menu

import "fmt"

// Currency is prepended to every formatted amount.
const Currency = "€"

// Items lists every orderable dish, in menu order. Fallback matching against
// utterance text walks this slice, so the order is part of the contract.
var Items = []string{
	"sushi roll",
	"sashimi",
	"nigiri",
	"miso soup",
	"tempura",
	"mochi",
	"edamame",
	"green tea",
}

var descriptions = map[string]string{
	"sushi roll": "Sushi rolls include rice, seaweed, and fillings like avocado, cucumber, or fish.",
	"sashimi":    "Sashimi is thinly sliced raw fish, served without rice.",
	"nigiri":     "Nigiri is raw fish pressed on rice.",
	"miso soup":  "Miso soup contains fermented soybean paste, tofu, and seaweed.",
	"tempura":    "Tempura is deep-fried shrimp or veggies.",
	"mochi":      "A rice cake dessert, usually filled with ice cream.",
	"edamame":    "Steamed soybeans, vegan and gluten-free.",
	"green tea":  "Traditional Japanese green tea.",
}

var prices = map[string]float64{
	"sushi roll": 4.5,
	"sashimi":    6,
	"nigiri":     2.5,
	"miso soup":  3,
	"tempura":    7,
	"mochi":      3.5,
	"edamame":    3,
	"green tea":  2,
}

// Ingredients is the known-ingredient vocabulary for modifier extraction.
// Longest-match selection relies on multi-word entries ("soy sauce") living
// alongside their substrings ("soy"); ties go to the earlier entry.
var Ingredients = []string{
	"wasabi",
	"ginger",
	"pickled ginger",
	"gari",
	"soy sauce",
	"soy",
	"mayo",
	"spicy mayo",
	"chili",
	"sugar",
}

// Known reports whether item is an orderable dish.
func Known(item string) bool {
	_, ok := prices[item]
	return ok
}

// Price returns the unit price for item, or 0 for unknown items.
func Price(item string) float64 {
	return prices[item]
}

// Describe returns the menu description for item.
func Describe(item string) (string, bool) {
	d, ok := descriptions[item]
	return d, ok
}

// FormatPrice renders an amount with the menu currency, e.g. "€4.50".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%s%.2f", Currency, amount)
}
