package shopping

import (
	"sort"

	"github.com/dukerupert/cesta/internal/model"
)

var roleRank = map[model.Role]int{
	model.RoleOwner:  0,
	model.RoleAdmin:  1,
	model.RoleEditor: 2,
	model.RoleViewer: 3,
}

// Members returns the list's members, owner first, then by role and id.
func (s *Service) Members(actorID, listID string) ([]model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, nil)
	if err != nil {
		return nil, err
	}
	return sortedMembers(l), nil
}

func sortedMembers(l model.List) []model.Member {
	out := make([]model.Member, 0, len(l.Members))
	for id, role := range l.Members {
		out = append(out, model.Member{UserID: id, Role: role})
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := roleRank[out[i].Role], roleRank[out[j].Role]; ri != rj {
			return ri < rj
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// AddMember shares the list with userID at role. Only the owner and admins
// may share, admins may not grant admin, and nobody can be made owner.
func (s *Service) AddMember(actorID, listID, userID string, role model.Role) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanManage)
	if err != nil {
		return model.List{}, s.record("add_member", err)
	}
	if userID == "" {
		return model.List{}, s.record("add_member", newError(KindValidation, "user is required"))
	}
	if _, ok := l.Members[userID]; ok {
		return model.List{}, s.record("add_member", newError(KindValidation, "user is already a member of this list"))
	}
	if err := checkGrant(l.Members[actorID], role); err != nil {
		return model.List{}, s.record("add_member", err)
	}
	l.Members[userID] = role
	s.lists.Put(l)
	return l, s.record("add_member", nil)
}

// SetMemberRole changes a member's role.
func (s *Service) SetMemberRole(actorID, listID, userID string, role model.Role) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanManage)
	if err != nil {
		return model.List{}, s.record("set_member_role", err)
	}
	if err := checkManage(l, actorID, userID); err != nil {
		return model.List{}, s.record("set_member_role", err)
	}
	if err := checkGrant(l.Members[actorID], role); err != nil {
		return model.List{}, s.record("set_member_role", err)
	}
	l.Members[userID] = role
	s.lists.Put(l)
	return l, s.record("set_member_role", nil)
}

// RemoveMember takes userID off the list. Any member but the owner may also
// remove themselves.
func (s *Service) RemoveMember(actorID, listID, userID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, nil)
	if err != nil {
		return model.List{}, s.record("remove_member", err)
	}
	if actorID == userID {
		if l.Members[actorID] == model.RoleOwner {
			return model.List{}, s.record("remove_member", newError(KindForbidden, "the owner cannot leave their own list"))
		}
	} else {
		if !l.Members[actorID].CanManage() {
			return model.List{}, s.record("remove_member", newError(KindForbidden, "role %s may not manage members", l.Members[actorID]))
		}
		if err := checkManage(l, actorID, userID); err != nil {
			return model.List{}, s.record("remove_member", err)
		}
	}
	delete(l.Members, userID)
	s.lists.Put(l)
	return l, s.record("remove_member", nil)
}

// checkManage reports whether actorID may change userID's membership.
func checkManage(l model.List, actorID, userID string) error {
	target, ok := l.Members[userID]
	if !ok {
		return newError(KindNotFound, "user is not a member of this list")
	}
	if target == model.RoleOwner {
		return newError(KindForbidden, "the list owner cannot be changed")
	}
	if userID == actorID {
		return newError(KindForbidden, "members cannot change their own role")
	}
	if l.Members[actorID] == model.RoleAdmin && target == model.RoleAdmin {
		return newError(KindForbidden, "admins cannot manage other admins")
	}
	return nil
}

// checkGrant reports whether a member with role actor may hand out role.
func checkGrant(actor, role model.Role) error {
	switch role {
	case model.RoleAdmin:
		if actor != model.RoleOwner {
			return newError(KindForbidden, "only the owner can grant admin")
		}
	case model.RoleEditor, model.RoleViewer:
	case model.RoleOwner:
		return newError(KindValidation, "ownership cannot be granted")
	default:
		return newError(KindValidation, "role must be admin, editor or viewer")
	}
	return nil
}
