// Package api wires the HTTP surface: the fulfillment webhook, the
// detectIntent proxy for the browser front end, kitchen ticket reads, and
// static file serving.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pandasushi/internal/dialogflow"
	"pandasushi/internal/dispatch"
	"pandasushi/internal/kitchen"
)

// Server represents the HTTP API for the ordering webhook.
type Server struct {
	router     *gin.Engine
	dispatcher *dispatch.Dispatcher
	kitchen    *kitchen.Simulator
	dialogflow *dialogflow.Client
	staticDir  string
}

// NewServer creates the API server. dialogflowClient may be nil when no
// service-account credentials are configured; the proxy route then answers
// 503 while the webhook keeps working.
func NewServer(d *dispatch.Dispatcher, k *kitchen.Simulator, dialogflowClient *dialogflow.Client, staticDir string) *Server {
	s := &Server{
		router:     gin.Default(),
		dispatcher: d,
		kitchen:    k,
		dialogflow: dialogflowClient,
		staticDir:  staticDir,
	}
	s.setupRoutes()
	return s
}

// Router returns the Gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Panda Sushi webhook running")
	})

	s.router.POST("/webhook", s.handleWebhook)
	s.router.POST("/dialogflow-query", s.handleDialogflowQuery)
	s.router.GET("/ws", s.handleTicketFeed)

	api := s.router.Group("/api")
	{
		api.GET("/kitchen/orders", s.handleKitchenOrders)
	}

	if s.staticDir != "" {
		s.router.Static("/static", s.staticDir)
	}
}

// handleWebhook feeds the event to the dispatcher. The dispatcher's
// contract is total, so this route always answers 200 with a reply
// envelope, even for undecodable bodies.
func (s *Server) handleWebhook(c *gin.Context) {
	var req dispatch.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, dispatch.Reply("Sorry, I couldn't read that request. Please try again."))
		return
	}
	c.JSON(http.StatusOK, s.dispatcher.Handle(req))
}

// handleDialogflowQuery forwards raw text from the front end to the NLU
// platform and returns the platform response untouched.
func (s *Server) handleDialogflowQuery(c *gin.Context) {
	if s.dialogflow == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dialogflow credentials not configured"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := s.dialogflow.DetectIntent(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dialogflow request failed"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// handleKitchenOrders lists all kitchen tickets in arrival order.
func (s *Server) handleKitchenOrders(c *gin.Context) {
	tickets := s.kitchen.Tickets()
	if tickets == nil {
		tickets = []kitchen.Ticket{}
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
