// Package kitchen simulates order fulfillment: confirmed orders become
// tickets that flip from "preparing" to "ready" after a fixed prep delay.
// A real kitchen integration would replace this boundary.
package kitchen

import (
	"log"
	"sync"
	"time"

	"pandasushi/internal/cart"
)

// Ticket statuses.
const (
	StatusPreparing = "preparing"
	StatusReady     = "ready"
)

// Order is the immutable snapshot handed over at confirmation time. It is
// never stored in the session store.
type Order struct {
	OrderNumber int         `json:"orderNumber"`
	Items       []cart.Line `json:"items"`
	Total       float64     `json:"total"`
}

// Ticket tracks one confirmed order through the kitchen.
type Ticket struct {
	Order  Order  `json:"order"`
	Status string `json:"status"`
}

// Simulator holds the process-wide ticket list. Send schedules the status
// flip on a timer; Cancel stops a pending flip before it fires.
type Simulator struct {
	prepDelay time.Duration

	mu      sync.Mutex
	tickets []Ticket
	timers  map[int]*time.Timer
	subs    []chan Ticket
}

// NewSimulator returns a simulator whose tickets become ready after
// prepDelay.
func NewSimulator(prepDelay time.Duration) *Simulator {
	return &Simulator{
		prepDelay: prepDelay,
		timers:    make(map[int]*time.Timer),
	}
}

// Send appends a "preparing" ticket for order and schedules its transition
// to "ready". It never blocks and cannot be retried or rolled back.
func (s *Simulator) Send(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("kitchen: received order #%d (%d items, total %.2f)",
		order.OrderNumber, len(order.Items), order.Total)

	ticket := Ticket{Order: order, Status: StatusPreparing}
	s.tickets = append(s.tickets, ticket)
	s.timers[order.OrderNumber] = time.AfterFunc(s.prepDelay, func() {
		s.markReady(order.OrderNumber)
	})
	s.notify(ticket)
}

// Cancel stops the pending transition for orderNumber and drops its ticket.
// It reports whether a preparing ticket was cancelled.
func (s *Simulator) Cancel(orderNumber int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[orderNumber]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, orderNumber)
	for i, t := range s.tickets {
		if t.Order.OrderNumber == orderNumber {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			break
		}
	}
	return true
}

// Tickets returns a snapshot of all tickets in arrival order.
func (s *Simulator) Tickets() []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ticket(nil), s.tickets...)
}

// Subscribe returns a channel that receives every ticket state change.
// Slow subscribers miss updates rather than block the kitchen.
func (s *Simulator) Subscribe() <-chan Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Ticket, 16)
	s.subs = append(s.subs, ch)
	return ch
}

// Unsubscribe removes a channel returned by Subscribe.
func (s *Simulator) Unsubscribe(ch <-chan Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

func (s *Simulator) markReady(orderNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, orderNumber)
	for i := range s.tickets {
		if s.tickets[i].Order.OrderNumber == orderNumber && s.tickets[i].Status == StatusPreparing {
			s.tickets[i].Status = StatusReady
			log.Printf("kitchen: order #%d ready", orderNumber)
			s.notify(s.tickets[i])
			return
		}
	}
}

// notify requires s.mu held.
func (s *Simulator) notify(t Ticket) {
	for _, sub := range s.subs {
		select {
		case sub <- t:
		default:
		}
	}
}
