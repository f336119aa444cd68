package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pandasushi/internal/kitchen"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the front end is served from the same process
	},
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// handleTicketFeed streams every kitchen ticket change to the client. The
// front end uses it to show orders flipping from preparing to ready.
func (s *Server) handleTicketFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: failed to upgrade connection: %v", err)
		return
	}

	feed := s.kitchen.Subscribe()

	go s.writeTickets(conn, feed)
	go s.discardReads(conn, feed)
}

// writeTickets pumps ticket updates and keepalive pings to the client.
func (s *Server) writeTickets(conn *websocket.Conn, feed <-chan kitchen.Ticket) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ticket, ok := <-feed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ticket); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// discardReads drains the connection so close frames are processed, and
// drops the kitchen subscription when the client goes away.
func (s *Server) discardReads(conn *websocket.Conn, feed <-chan kitchen.Ticket) {
	defer func() {
		s.kitchen.Unsubscribe(feed)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}
	}
}
