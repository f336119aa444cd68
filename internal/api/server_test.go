package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pandasushi/internal/cart"
	"pandasushi/internal/dispatch"
	"pandasushi/internal/kitchen"
	"pandasushi/internal/session"
)

func newTestServer() (*Server, *kitchen.Simulator) {
	gin.SetMode(gin.TestMode)
	sim := kitchen.NewSimulator(time.Hour)
	d := dispatch.New(session.NewStore(), sim)
	return NewServer(d, sim, nil, ""), sim
}

func TestHealthRoute(t *testing.T) {
	s, _ := newTestServer()

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Panda Sushi webhook running", w.Body.String())
}

func TestWebhookRoundTrip(t *testing.T) {
	s, _ := newTestServer()

	body := `{
		"session": "projects/p/agent/sessions/abc",
		"queryResult": {
			"queryText": "two sushi rolls",
			"parameters": {"food_item": "sushi roll", "quantity": 2},
			"intent": {"displayName": "Order.Food"}
		}
	}`
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"fulfillmentMessages":[{"text":{"text":["Added 2 x sushi roll. Anything else?"]}}]}`,
		w.Body.String())
}

func TestWebhookMalformedBodyStillReplies(t *testing.T) {
	s, _ := newTestServer()

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dispatch.WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Text(), "even a broken request gets a reply envelope")
}

func TestKitchenOrdersRoute(t *testing.T) {
	s, sim := newTestServer()

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/kitchen/orders", nil))
	assert.JSONEq(t, `{"tickets":[]}`, w.Body.String())

	sim.Send(kitchen.Order{OrderNumber: 1234, Items: []cart.Line{{Item: "mochi", Quantity: 1}}, Total: 3.5})

	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/kitchen/orders", nil))

	var body struct {
		Tickets []kitchen.Ticket `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tickets, 1)
	assert.Equal(t, 1234, body.Tickets[0].Order.OrderNumber)
	assert.Equal(t, kitchen.StatusPreparing, body.Tickets[0].Status)
}

func TestDialogflowProxyWithoutCredentials(t *testing.T) {
	s, _ := newTestServer()

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dialogflow-query", strings.NewReader(`{"text":"hi"}`)))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTicketFeed(t *testing.T) {
	s, sim := newTestServer()

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the handler a moment to register its kitchen subscription.
	time.Sleep(50 * time.Millisecond)

	sim.Send(kitchen.Order{OrderNumber: 4321, Total: 9})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ticket kitchen.Ticket
	require.NoError(t, conn.ReadJSON(&ticket))
	assert.Equal(t, 4321, ticket.Order.OrderNumber)
	assert.Equal(t, kitchen.StatusPreparing, ticket.Status)
}
