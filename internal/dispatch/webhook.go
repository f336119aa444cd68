package dispatch

// Wire types for the NLU platform's webhook exchange. The response nesting
// (fulfillmentMessages -> text -> text -> [string]) is a hard contract with
// the upstream platform and must not change shape.

// WebhookRequest is the inbound event: conversation path, resolved intent,
// raw query text, and the heterogeneous parameter bag.
type WebhookRequest struct {
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries what the NLU platform understood.
type QueryResult struct {
	QueryText  string         `json:"queryText"`
	Parameters map[string]any `json:"parameters"`
	Intent     IntentRef      `json:"intent"`
}

// IntentRef names the classified intent.
type IntentRef struct {
	DisplayName string `json:"displayName"`
}

// WebhookResponse wraps a single reply string in the platform's
// text-message envelope.
type WebhookResponse struct {
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages"`
}

// FulfillmentMessage is one message in the response envelope.
type FulfillmentMessage struct {
	Text TextMessage `json:"text"`
}

// TextMessage holds the reply variants; this webhook always sends one.
type TextMessage struct {
	Text []string `json:"text"`
}

// Reply builds the response envelope around a single reply string.
func Reply(text string) WebhookResponse {
	return WebhookResponse{
		FulfillmentMessages: []FulfillmentMessage{
			{Text: TextMessage{Text: []string{text}}},
		},
	}
}

// Text returns the first reply string in the envelope, or "".
func (r WebhookResponse) Text() string {
	if len(r.FulfillmentMessages) == 0 || len(r.FulfillmentMessages[0].Text.Text) == 0 {
		return ""
	}
	return r.FulfillmentMessages[0].Text.Text[0]
}
