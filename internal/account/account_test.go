package account

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dukerupert/recipebox/internal/database"
	"github.com/dukerupert/recipebox/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// fakeHasher tags the password instead of hashing it.
type fakeHasher struct {
	verifies int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "fake$" + password, nil
}

func (h *fakeHasher) Verify(password, digest string) bool {
	h.verifies++
	return digest == "fake$"+password
}

func setupAccountTest(t *testing.T, hasher Hasher) (*Service, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	users := store.NewUserStore(db)
	return NewService(users, hasher, slog.Default()), users
}

func TestCreateUser(t *testing.T) {
	svc, users := setupAccountTest(t, &fakeHasher{})

	u, err := svc.CreateUser("alice", "correct horse")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, digest, err := users.Credentials("alice")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if digest == "correct horse" {
		t.Error("password stored in plaintext")
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := setupAccountTest(t, &fakeHasher{})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "al", "password1"},
		{"blank username", "   ", "password1"},
		{"long username", strings.Repeat("a", 51), "password1"},
		{"short password", "alice", "short"},
		{"empty password", "alice", ""},
		{"password too long for bcrypt", "alice", strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(tt.username, tt.password)
			if !store.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateUserTaken(t *testing.T) {
	svc, _ := setupAccountTest(t, &fakeHasher{})

	if _, err := svc.CreateUser("alice", "password1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := svc.CreateUser("alice", "password2"); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestVerifyUser(t *testing.T) {
	hasher := &fakeHasher{}
	svc, _ := setupAccountTest(t, hasher)

	u, err := svc.CreateUser("alice", "password1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	id, ok, err := svc.VerifyUser("alice", "password1")
	if err != nil || !ok || id != u.ID {
		t.Errorf("VerifyUser(right) = (%d, %v, %v), want (%d, true, nil)", id, ok, err, u.ID)
	}

	id, ok, err = svc.VerifyUser("alice", "password2")
	if err != nil || ok || id != 0 {
		t.Errorf("VerifyUser(wrong password) = (%d, %v, %v), want (0, false, nil)", id, ok, err)
	}

	before := hasher.verifies
	id, ok, err = svc.VerifyUser("mallory", "password1")
	if err != nil || ok || id != 0 {
		t.Errorf("VerifyUser(unknown) = (%d, %v, %v), want (0, false, nil)", id, ok, err)
	}
	if hasher.verifies != before+1 {
		t.Error("unknown user should still run the hasher")
	}
}

func TestChangeUsername(t *testing.T) {
	svc, users := setupAccountTest(t, &fakeHasher{})
	u, _ := svc.CreateUser("alice", "password1")
	svc.CreateUser("bob", "password1")

	if _, err := svc.ChangeUsername(u.ID, "wrong-pass", "alicia"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("wrong password err = %v, want ErrNoMatch", err)
	}
	if _, err := svc.ChangeUsername(u.ID, "password1", "al"); !store.IsValidation(err) {
		t.Errorf("short name err = %v, want validation error", err)
	}
	if _, err := svc.ChangeUsername(u.ID, "password1", "bob"); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("taken name err = %v, want ErrUsernameTaken", err)
	}

	id, err := svc.ChangeUsername(u.ID, "password1", "alicia")
	if err != nil {
		t.Fatalf("change username: %v", err)
	}
	if id != u.ID {
		t.Errorf("id = %d, want %d", id, u.ID)
	}
	got, _ := users.GetByID(u.ID)
	if got.Username != "alicia" {
		t.Errorf("username = %q, want %q", got.Username, "alicia")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupAccountTest(t, &fakeHasher{})
	u, _ := svc.CreateUser("alice", "password1")

	if _, err := svc.ChangePassword(u.ID, "password1", "short"); !store.IsValidation(err) {
		t.Errorf("short password err = %v, want validation error", err)
	}
	if _, err := svc.ChangePassword(u.ID, "nope-nope", "password2"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("wrong current err = %v, want ErrNoMatch", err)
	}

	id, err := svc.ChangePassword(u.ID, "password1", "password2")
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if id != u.ID {
		t.Errorf("id = %d, want %d", id, u.ID)
	}
	if _, ok, _ := svc.VerifyUser("alice", "password1"); ok {
		t.Error("old password still works")
	}
	if _, ok, _ := svc.VerifyUser("alice", "password2"); !ok {
		t.Error("new password rejected")
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, users := setupAccountTest(t, &fakeHasher{})
	u, _ := svc.CreateUser("alice", "password1")

	if err := svc.DeleteAccount(u.ID, "wrong-pass"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("wrong password err = %v, want ErrNoMatch", err)
	}
	if err := svc.DeleteAccount(u.ID, "password1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if got, _ := users.GetByID(u.ID); got != nil {
		t.Error("user still present")
	}
	if _, ok, _ := svc.VerifyUser("alice", "password1"); ok {
		t.Error("deleted user can still log in")
	}
}

func TestBcryptRoundTrip(t *testing.T) {
	svc, _ := setupAccountTest(t, BcryptHasher{Cost: bcrypt.MinCost})

	u, err := svc.CreateUser("alice", "password1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	id, ok, err := svc.VerifyUser("alice", "password1")
	if err != nil || !ok || id != u.ID {
		t.Errorf("VerifyUser = (%d, %v, %v), want (%d, true, nil)", id, ok, err, u.ID)
	}
	if _, ok, _ := svc.VerifyUser("alice", "password2"); ok {
		t.Error("wrong password accepted")
	}
	if _, ok, _ := svc.VerifyUser("nobody", "password1"); ok {
		t.Error("unknown user accepted")
	}
}
