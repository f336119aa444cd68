// Package session keys conversation state by session identifier: one cart
// and one guest-detail record per ongoing conversation.
package session

import (
	"strings"
	"sync"

	"pandasushi/internal/cart"
)

// DefaultID is used when the conversation path carries no session segment.
const DefaultID = "default"

// GuestDetails captures who the order is for. Name and Table drive the
// pickup vs dine-in branch at confirmation; all fields are optional until
// then.
type GuestDetails struct {
	Name       string `json:"name,omitempty"`
	Table      string `json:"table,omitempty"`
	PickupTime string `json:"pickupTime,omitempty"`
}

// Empty reports whether no detail has been captured yet.
func (g *GuestDetails) Empty() bool {
	return g == nil || (g.Name == "" && g.Table == "" && g.PickupTime == "")
}

// Store maps session identifiers to carts and guest details. Entries are
// created on first access and destroyed only by Clear; there is no expiry.
// Constructed once at startup and injected, never referenced as a global.
type Store struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	details map[string]*GuestDetails
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		carts:   make(map[string]*cart.Cart),
		details: make(map[string]*GuestDetails),
	}
}

// Cart returns the session's cart, creating it on first access.
func (s *Store) Cart(id string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		c = cart.New()
		s.carts[id] = c
	}
	return c
}

// PeekCart returns the session's cart without creating one. A nil return
// and an empty cart mean the same thing: the session has ordered nothing.
func (s *Store) PeekCart(id string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[id]
}

// Details returns the session's guest details, creating them on first
// access.
func (s *Store) Details(id string) *GuestDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.details[id]
	if !ok {
		d = &GuestDetails{}
		s.details[id] = d
	}
	return d
}

// PeekDetails returns the session's guest details without creating them.
func (s *Store) PeekDetails(id string) *GuestDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details[id]
}

// Clear destroys the session's cart and guest details together.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	delete(s.details, id)
}

// Sessions reports how many sessions currently hold state.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.carts)
	for id := range s.details {
		if _, ok := s.carts[id]; !ok {
			n++
		}
	}
	return n
}

// IDFromPath derives the session identifier from the conversation path: the
// segment after "/sessions/", or DefaultID when absent.
func IDFromPath(path string) string {
	_, id, ok := strings.Cut(path, "/sessions/")
	if !ok || id == "" {
		return DefaultID
	}
	return id
}
