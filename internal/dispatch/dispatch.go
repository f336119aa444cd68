// Package dispatch routes webhook events to order operations and renders
// the natural-language reply. Its contract is total: every event, malformed
// or not, produces a well-formed response envelope.
package dispatch

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"pandasushi/internal/cart"
	"pandasushi/internal/extract"
	"pandasushi/internal/kitchen"
	"pandasushi/internal/menu"
	"pandasushi/internal/monitoring"
	"pandasushi/internal/session"
)

const fallbackReply = "Sorry, I didn't catch that. You can order dishes, change them, or ask what's on the menu."
const faultReply = "Something went wrong on our side. Please try that again."

// Notifier receives confirmed orders. The kitchen simulator implements it;
// tests substitute a recorder.
type Notifier interface {
	Send(kitchen.Order)
}

// Dispatcher applies webhook events to the session store, one at a time in
// arrival order, mirroring the single logical thread of control the
// conversation model assumes.
type Dispatcher struct {
	mu       sync.Mutex
	store    *session.Store
	notifier Notifier
}

// New returns a dispatcher over store that hands confirmed orders to
// notifier.
func New(store *session.Store, notifier Notifier) *Dispatcher {
	return &Dispatcher{store: store, notifier: notifier}
}

// Handle processes one webhook event and always returns a reply envelope.
// Any panic during handling is logged and converted to a generic apology,
// leaving the session untouched so the guest can retry.
func (d *Dispatcher) Handle(req WebhookRequest) (resp WebhookResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: recovered from panic: %v", r)
			monitoring.HandlerPanics.Inc()
			resp = Reply(faultReply)
		}
	}()

	d.mu.Lock()
	defer d.mu.Unlock()

	sid := session.IDFromPath(req.Session)
	text := strings.ToLower(req.QueryResult.QueryText)
	params := extract.FromEvent(req.QueryResult.Parameters, text)
	intent := ResolveIntent(req.QueryResult.Intent.DisplayName, text)
	monitoring.WebhookRequests.WithLabelValues(intent.String()).Inc()

	var reply string
	switch intent {
	case IntentDescribeFood:
		reply = d.describeFood(params)
	case IntentAddFood:
		reply = d.addFood(sid, params)
	case IntentRemoveFood:
		reply = d.removeFood(sid, params)
	case IntentModifyOrder:
		reply = d.modifyOrder(sid, params)
	case IntentShowOrder:
		reply = d.showOrder(sid)
	case IntentClearOrder:
		reply = d.clearOrder(sid)
	case IntentSetName:
		reply = d.setName(sid, req.QueryResult.Parameters)
	case IntentSetTable:
		reply = d.setTable(sid, req.QueryResult.Parameters)
	case IntentSetPickupTime:
		reply = d.setPickupTime(sid, req.QueryResult.Parameters)
	case IntentConfirmOrder:
		reply = d.confirmOrder(sid)
	default:
		reply = fallbackReply
	}

	monitoring.ActiveSessions.Set(float64(d.store.Sessions()))
	return Reply(reply)
}

func (d *Dispatcher) describeFood(p extract.Params) string {
	desc, ok := menu.Describe(p.Food)
	if !ok {
		return "Which dish would you like to know about?"
	}
	return fmt.Sprintf("%s It costs %s.", desc, menu.FormatPrice(menu.Price(p.Food)))
}

func (d *Dispatcher) addFood(sid string, p extract.Params) string {
	if p.Food == "" {
		return "Which item would you like to order?"
	}
	if !menu.Known(p.Food) {
		return fmt.Sprintf("Sorry, we don't have %s on the menu.", p.Food)
	}
	d.store.Cart(sid).Add(p.Food, p.Quantity)
	return fmt.Sprintf("Added %g x %s. Anything else?", p.Quantity, p.Food)
}

func (d *Dispatcher) removeFood(sid string, p extract.Params) string {
	if p.Food == "" {
		return "Which item should I take off your order?"
	}
	c := d.store.PeekCart(sid)
	if c == nil {
		return fmt.Sprintf("I couldn't find %s in your cart. %s", p.Food, cart.EmptySummary)
	}
	// Without an explicit quantity "remove the sushi roll" drops the whole
	// line; with one it decrements.
	qty := p.Quantity
	if !p.QuantityExplicit {
		qty = 0
	}
	removed := c.Remove(p.Food, qty)
	if removed == 0 {
		return fmt.Sprintf("I couldn't find %s in your cart. %s", p.Food, c.Summary())
	}
	return fmt.Sprintf("Removed %g x %s. %s", removed, p.Food, c.Summary())
}

func (d *Dispatcher) modifyOrder(sid string, p extract.Params) string {
	if p.Action == "" || p.Ingredient == "" {
		return "What should I change? You can say things like 'no wasabi' or 'extra ginger'."
	}
	c := d.store.PeekCart(sid)
	if c == nil {
		return cart.EmptySummary + " Order something first!"
	}
	item, err := c.ApplyModifier(p.Food, p.Action, p.Ingredient)
	switch err {
	case nil:
		return fmt.Sprintf("Got it — %s %s on your %s.", p.Action, p.Ingredient, item)
	case cart.ErrEmpty:
		return cart.EmptySummary + " Order something first!"
	case cart.ErrNotFound:
		return fmt.Sprintf("I couldn't find %s in your cart. %s", p.Food, c.Summary())
	default:
		return faultReply
	}
}

func (d *Dispatcher) showOrder(sid string) string {
	c := d.store.PeekCart(sid)
	if c == nil || c.Empty() {
		return cart.EmptySummary
	}
	return fmt.Sprintf("Here's your order: %s. Total: %s.", c.Summary(), menu.FormatPrice(c.Total()))
}

func (d *Dispatcher) clearOrder(sid string) string {
	d.store.Clear(sid)
	return "I've cleared your order. What would you like instead?"
}

func (d *Dispatcher) setName(sid string, params map[string]any) string {
	name := stringParam(params, "name", "person", "given-name")
	if name == "" {
		return "What name should I put on the order?"
	}
	d.store.Details(sid).Name = name
	return fmt.Sprintf("Thanks, %s! Say 'confirm' when you're ready to order.", name)
}

func (d *Dispatcher) setTable(sid string, params map[string]any) string {
	table := stringParam(params, "table", "table_number", "number")
	if table == "" {
		return "Which table are you at?"
	}
	d.store.Details(sid).Table = table
	return fmt.Sprintf("Got it — table %s. Say 'confirm' when you're ready to order.", table)
}

func (d *Dispatcher) setPickupTime(sid string, params map[string]any) string {
	at := stringParam(params, "pickup_time", "time", "date_time")
	if at == "" {
		return "When would you like to pick it up?"
	}
	d.store.Details(sid).PickupTime = at
	return fmt.Sprintf("Noted — pickup at %s.", at)
}

func (d *Dispatcher) confirmOrder(sid string) string {
	c := d.store.PeekCart(sid)
	if c == nil || c.Empty() {
		return cart.EmptySummary + " Add something before confirming!"
	}
	details := d.store.PeekDetails(sid)
	if details == nil || (details.Name == "" && details.Table == "") {
		return "Almost there! Is this for dine-in or pickup? Tell me your table number or a name for the order."
	}

	order := kitchen.Order{
		OrderNumber: 1000 + rand.Intn(9000),
		Items:       c.Lines(),
		Total:       c.Total(),
	}
	d.notifier.Send(order)
	monitoring.OrdersConfirmed.Inc()
	monitoring.OrderValue.Add(order.Total)

	summary := c.Summary()
	total := menu.FormatPrice(order.Total)
	d.store.Clear(sid)

	if details.Table != "" {
		return fmt.Sprintf("Order #%d confirmed for table %s: %s. Total %s. It'll be right out!",
			order.OrderNumber, details.Table, summary, total)
	}
	reply := fmt.Sprintf("Order #%d confirmed for %s: %s. Total %s.",
		order.OrderNumber, details.Name, summary, total)
	if details.PickupTime != "" {
		return fmt.Sprintf("%s See you at %s!", reply, details.PickupTime)
	}
	return reply + " It'll be ready for pickup soon!"
}

// stringParam reads the first usable string among keys, unwrapping arrays,
// numbers, and the NLU platform's {name: ...} object parameters.
func stringParam(params map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := paramText(params[key]); s != "" {
			return s
		}
	}
	return ""
}

func paramText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%g", t))
	case []any:
		if len(t) > 0 {
			return paramText(t[0])
		}
	case map[string]any:
		return paramText(t["name"])
	}
	return ""
}
