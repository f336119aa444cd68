package dispatch

import "regexp"

// Intent is the typed set of operations the dispatcher knows, plus an
// explicit unrecognized variant for the terminal no-op transition.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentDescribeFood
	IntentAddFood
	IntentRemoveFood
	IntentModifyOrder
	IntentShowOrder
	IntentClearOrder
	IntentSetName
	IntentSetTable
	IntentSetPickupTime
	IntentConfirmOrder
)

var intentsByName = map[string]Intent{
	"Describe.Food":      IntentDescribeFood,
	"Order.Food":         IntentAddFood,
	"Order.Remove":       IntentRemoveFood,
	"Modify.Order":       IntentModifyOrder,
	"Cart.Show":          IntentShowOrder,
	"Cart.Clear":         IntentClearOrder,
	"Details.Name":       IntentSetName,
	"Details.Table":      IntentSetTable,
	"Details.PickupTime": IntentSetPickupTime,
	"Order.Confirm":      IntentConfirmOrder,
}

// removePattern is a safety net against upstream misclassification: any
// utterance that clearly asks for removal is routed to remove handling
// regardless of the declared intent.
var removePattern = regexp.MustCompile(`remove|delete|take off|take out|take away|cancel|no more|minus|drop`)

// ResolveIntent maps the declared intent name to an Intent, with the
// remove-keyword override evaluated first against the lowercased utterance.
func ResolveIntent(name, loweredText string) Intent {
	if removePattern.MatchString(loweredText) {
		return IntentRemoveFood
	}
	if intent, ok := intentsByName[name]; ok {
		return intent
	}
	return IntentUnrecognized
}

// String returns a stable label for logs and metrics.
func (i Intent) String() string {
	switch i {
	case IntentDescribeFood:
		return "describe_food"
	case IntentAddFood:
		return "add_food"
	case IntentRemoveFood:
		return "remove_food"
	case IntentModifyOrder:
		return "modify_order"
	case IntentShowOrder:
		return "show_order"
	case IntentClearOrder:
		return "clear_order"
	case IntentSetName:
		return "set_name"
	case IntentSetTable:
		return "set_table"
	case IntentSetPickupTime:
		return "set_pickup_time"
	case IntentConfirmOrder:
		return "confirm_order"
	default:
		return "unrecognized"
	}
}
