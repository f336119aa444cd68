// Package cart implements the per-session order cart: line items, modifiers,
// pricing, and the human-readable summary returned to the guest.
package cart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"pandasushi/internal/menu"
)

// EmptySummary is the exact sentence Summary returns for an empty cart. It
// doubles as an emptiness sentinel in responses, so the literal must not
// change.
const EmptySummary = "Your cart is empty."

var (
	// ErrEmpty reports a modifier applied to a cart with no lines.
	ErrEmpty = errors.New("cart is empty")
	// ErrNotFound reports an operation on an item the cart does not hold.
	ErrNotFound = errors.New("item not in cart")
)

// Modifier is one change applied to a line, e.g. {no, wasabi}. Repeated
// identical modifiers are legal and accumulate in application order.
type Modifier struct {
	Action     string `json:"action"`
	Ingredient string `json:"ingredient"`
}

// Line aggregates one menu item's quantity and modifier history. A cart
// holds at most one line per item.
type Line struct {
	Item      string     `json:"item"`
	Quantity  float64    `json:"quantity"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
}

// Cart is an ordered sequence of lines in insertion order. It is not safe
// for concurrent use; the dispatcher serializes access.
type Cart struct {
	lines []*Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a snapshot copy of the cart in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
		out[i].Modifiers = append([]Modifier(nil), l.Modifiers...)
	}
	return out
}

// Add merges qty into the existing line for item, or appends a new line.
// The caller validates item against the menu before calling.
func (c *Cart) Add(item string, qty float64) {
	for _, l := range c.lines {
		if l.Item == item {
			l.Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, &Line{Item: item, Quantity: qty})
}

// Remove takes qty of item out of the cart and returns how much was removed.
// qty <= 0 means "all of it". Removing at least the line's quantity deletes
// the line and reports its full accumulated quantity; a miss reports 0.
func (c *Cart) Remove(item string, qty float64) float64 {
	for i, l := range c.lines {
		if l.Item != item {
			continue
		}
		if qty <= 0 || qty >= l.Quantity {
			removed := l.Quantity
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return removed
		}
		l.Quantity -= qty
		return qty
	}
	return 0
}

// ApplyModifier appends {action, ingredient} to the line for item. An empty
// item targets the most recently added line, a convenience for utterances
// like "no wasabi" spoken right after ordering. Returns the modified item
// name, ErrEmpty for a cart with no lines, or ErrNotFound when the named
// item is not in the cart.
func (c *Cart) ApplyModifier(item, action, ingredient string) (string, error) {
	if len(c.lines) == 0 {
		return "", ErrEmpty
	}
	target := c.lines[len(c.lines)-1]
	if item != "" {
		target = nil
		for _, l := range c.lines {
			if l.Item == item {
				target = l
				break
			}
		}
		if target == nil {
			return "", ErrNotFound
		}
	}
	target.Modifiers = append(target.Modifiers, Modifier{Action: action, Ingredient: ingredient})
	return target.Item, nil
}

// Total prices the cart: each line is price × quantity rounded to 2 decimal
// places, and the sum is rounded again. Lines round before the sum does.
func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += linePrice(l)
	}
	return round2(sum)
}

// Summary renders the cart as one comma-joined sentence in insertion order,
// e.g. "2 x sushi roll (no wasabi) — €9.00, 1 x sashimi — €6.00", or
// EmptySummary when there are no lines.
func (c *Cart) Summary() string {
	if len(c.lines) == 0 {
		return EmptySummary
	}
	parts := make([]string, 0, len(c.lines))
	for _, l := range c.lines {
		s := fmt.Sprintf("%g x %s", l.Quantity, l.Item)
		if len(l.Modifiers) > 0 {
			mods := make([]string, len(l.Modifiers))
			for i, m := range l.Modifiers {
				mods[i] = m.Action + " " + m.Ingredient
			}
			s += " (" + strings.Join(mods, ", ") + ")"
		}
		parts = append(parts, s+" — "+menu.FormatPrice(linePrice(l)))
	}
	return strings.Join(parts, ", ")
}

func linePrice(l *Line) float64 {
	return round2(menu.Price(l.Item) * l.Quantity)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
