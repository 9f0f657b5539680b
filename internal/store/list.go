package store

import (
	"time"

	"github.com/dukerupert/cesta/internal/model"
)

// ListStore holds shopping lists in creation order. Lists go in and come out
// as deep copies, so callers edit a copy and Put it back to commit.
// It is not safe for concurrent use.
type ListStore struct {
	lists []model.List
}

func NewListStore() *ListStore {
	return &ListStore{}
}

// Create adds an empty list owned by ownerID.
func (s *ListStore) Create(name, ownerID string, createdAt time.Time) model.List {
	l := model.List{
		ID:        NewID("list"),
		Name:      name,
		Items:     []model.ListItem{},
		OwnerID:   ownerID,
		Members:   map[string]model.Role{ownerID: model.RoleOwner},
		CreatedAt: createdAt,
	}
	s.lists = append(s.lists, l)
	return l.Clone()
}

func (s *ListStore) Get(id string) (model.List, bool) {
	if i := s.index(id); i >= 0 {
		return s.lists[i].Clone(), true
	}
	return model.List{}, false
}

// Put replaces the stored list with the same id.
func (s *ListStore) Put(l model.List) bool {
	i := s.index(l.ID)
	if i < 0 {
		return false
	}
	s.lists[i] = l.Clone()
	return true
}

// ListForUser returns the lists userID is a member of.
func (s *ListStore) ListForUser(userID string) []model.List {
	out := []model.List{}
	for _, l := range s.lists {
		if _, ok := l.Members[userID]; ok {
			out = append(out, l.Clone())
		}
	}
	return out
}

// RemoveProduct drops every item referencing productID from every list and
// returns how many items were removed.
func (s *ListStore) RemoveProduct(productID string) int {
	n := 0
	for i := range s.lists {
		kept := s.lists[i].Items[:0]
		for _, item := range s.lists[i].Items {
			if item.ProductID == productID {
				n++
				continue
			}
			kept = append(kept, item)
		}
		s.lists[i].Items = kept
	}
	return n
}

func (s *ListStore) index(id string) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}
