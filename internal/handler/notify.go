package handler

import (
	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/websocket"
)

// notifier pushes change messages to websocket clients. A nil hub drops
// them.
type notifier struct {
	hub *websocket.Hub
}

// catalog tells every client about a catalog change.
func (n notifier) catalog(entity, action, id string) {
	if n.hub == nil {
		return
	}
	n.hub.Broadcast(websocket.NewMessage(entity, action, id, nil))
}

// list tells the members of l, plus any extra users, about a list change.
func (n notifier) list(l model.List, entity, action, id string, extra ...string) {
	if n.hub == nil {
		return
	}
	users := make([]string, 0, len(l.Members)+len(extra))
	for userID := range l.Members {
		users = append(users, userID)
	}
	users = append(users, extra...)
	n.hub.BroadcastTo(users, websocket.NewMessage(entity, action, id, map[string]any{"list_id": l.ID}))
}
