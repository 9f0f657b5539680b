package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/cesta/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("Alice@Example.com ", "Alice", "https://example.com/a.png", "hunter22")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Name != "Alice" {
		t.Errorf("name = %q, want %q", u.Name, "Alice")
	}
	if u.AvatarURL != "https://example.com/a.png" {
		t.Errorf("avatar_url = %q", u.AvatarURL)
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice@example.com", "Alice", "", "hunter22"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("ALICE@example.com", "Alice2", "", "hunter22")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestUserGetByID(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("alice@example.com", "Alice", "", "hunter22")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u == nil || u.Email != "alice@example.com" {
		t.Fatalf("got %+v", u)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByID("user_missing")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "", "hunter22")

	u, err := us.GetByEmail("Alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want id %s", u, created.ID)
	}
}

func TestUserAuthenticate(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "", "hunter22")

	u, err := us.Authenticate("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want id %s", u, created.ID)
	}

	u, err = us.Authenticate("alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("authenticate wrong password: %v", err)
	}
	if u != nil {
		t.Error("expected nil for wrong password")
	}

	u, err = us.Authenticate("bob@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate unknown email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserUpdate(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "", "hunter22")

	u, err := us.Update(created.ID, "Alicia", "https://example.com/b.png")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "Alicia" {
		t.Errorf("name = %q, want %q", u.Name, "Alicia")
	}
	if u.AvatarURL != "https://example.com/b.png" {
		t.Errorf("avatar_url = %q", u.AvatarURL)
	}
}

func TestUserDelete(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "", "hunter22")

	if err := us.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	u, err := us.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if u != nil {
		t.Error("expected nil after delete")
	}
}
