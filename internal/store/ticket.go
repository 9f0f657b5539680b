package store

import "github.com/dukerupert/cesta/internal/model"

// TicketStore keeps receipt tickets under review. It is not safe for
// concurrent use.
type TicketStore struct {
	tickets map[string]model.Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{tickets: make(map[string]model.Ticket)}
}

// Create assigns ids to the ticket and each of its lines.
func (s *TicketStore) Create(t model.Ticket) model.Ticket {
	t = t.Clone()
	t.ID = NewID("ticket")
	for i := range t.Lines {
		t.Lines[i].ID = NewID("line")
	}
	s.tickets[t.ID] = t
	return t.Clone()
}

func (s *TicketStore) Get(id string) (model.Ticket, bool) {
	t, ok := s.tickets[id]
	if !ok {
		return model.Ticket{}, false
	}
	return t.Clone(), true
}

func (s *TicketStore) Put(t model.Ticket) bool {
	if _, ok := s.tickets[t.ID]; !ok {
		return false
	}
	s.tickets[t.ID] = t.Clone()
	return true
}
