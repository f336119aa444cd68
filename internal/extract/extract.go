// Package extract normalizes the parameter bag of an inbound webhook event.
// The upstream NLU is noisy: parameters may be missing, array-valued, or the
// wrong type, so every field carries an ordered fallback chain that can
// recover the value from the raw utterance text. Each chain is evaluated
// first-match-wins and every extraction is a pure function of its inputs.
package extract

import (
	"math"
	"strconv"
	"strings"

	"pandasushi/internal/menu"
)

// Params is the normalized view of one webhook event's parameters.
type Params struct {
	// Quantity defaults to 1 when absent or unusable. Zero and negative
	// values pass through unvalidated; callers own that policy.
	Quantity float64
	// QuantityExplicit reports whether Quantity came from the parameter bag
	// rather than the default. Remove handling uses it to tell "remove one
	// sushi roll" apart from "remove the sushi roll".
	QuantityExplicit bool
	Food             string
	Action           string
	Ingredient       string
}

var quantityKeys = []string{"quantity", "number", "amount", "qty"}
var foodKeys = []string{"food_item", "item"}
var actionKeys = []string{"action", "modifier"}
var ingredientKeys = []string{"ingredient"}

// actionRules classifies utterance text into a modifier polarity. Families
// are tried in order and the first family with any keyword hit wins.
var actionRules = []struct {
	keywords []string
	action   string
}{
	{[]string{"no ", "without", "hold", "skip", "remove"}, "no"},
	{[]string{"extra", "add more", "double"}, "extra"},
	{[]string{"less", "light", "easy on", "not too much"}, "less"},
}

// FromEvent extracts all four fields from a parameter bag and the lowercased
// utterance text. The extractions are independent of one another.
func FromEvent(params map[string]any, text string) Params {
	text = strings.ToLower(text)
	qty, explicit := Quantity(params)
	return Params{
		Quantity:         qty,
		QuantityExplicit: explicit,
		Food:             Food(params, text),
		Action:           Action(params, text),
		Ingredient:       Ingredient(params, text),
	}
}

// Quantity reads the first usable numeric value among the quantity alias
// keys. The second return reports whether the value came from the bag.
func Quantity(params map[string]any) (float64, bool) {
	for _, key := range quantityKeys {
		v, ok := params[key]
		if !ok {
			continue
		}
		if n, ok := toNumber(v); ok {
			return n, true
		}
	}
	return 1, false
}

// Food resolves the ordered food item. Chain: alias keys in the bag, then a
// direct substring match of any menu item against the utterance, then a
// suffix-word match on the last token of each item name ("roll" finds
// "sushi roll"). Returns "" when nothing matches.
func Food(params map[string]any, text string) string {
	if food := stringValue(params, foodKeys); food != "" {
		return strings.TrimSpace(strings.ToLower(food))
	}
	for _, item := range menu.Items {
		if strings.Contains(text, item) {
			return item
		}
	}
	for _, item := range menu.Items {
		tokens := strings.Fields(item)
		if len(tokens) < 2 {
			continue
		}
		if strings.Contains(text, tokens[len(tokens)-1]) {
			return item
		}
	}
	return ""
}

// Action resolves the modifier polarity: the bag value if supplied, else the
// first keyword family that matches the utterance.
func Action(params map[string]any, text string) string {
	if action := stringValue(params, actionKeys); action != "" {
		return strings.TrimSpace(strings.ToLower(action))
	}
	for _, rule := range actionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.action
			}
		}
	}
	return ""
}

// Ingredient resolves the modifier ingredient: the bag value if supplied,
// else the longest vocabulary entry found in the utterance, so "soy sauce"
// beats its substring "soy". Length ties go to the earlier vocabulary entry.
func Ingredient(params map[string]any, text string) string {
	if ing := stringValue(params, ingredientKeys); ing != "" {
		return strings.TrimSpace(strings.ToLower(ing))
	}
	best := ""
	for _, ing := range menu.Ingredients {
		if len(ing) > len(best) && strings.Contains(text, ing) {
			best = ing
		}
	}
	return best
}

// stringValue reads the first non-empty string among the alias keys,
// unwrapping array values to their first element.
func stringValue(params map[string]any, keys []string) string {
	for _, key := range keys {
		if s := asString(params[key]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			return asString(t[0])
		}
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return finite(n)
	case []any:
		if len(t) > 0 {
			return toNumber(t[0])
		}
	}
	return 0, false
}

func finite(n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
