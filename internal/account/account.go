package account

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
)

// ErrNoMatch is returned for a wrong password, whether or not the
// username exists.
var ErrNoMatch = errors.New("invalid username or password")

// maxPasswordBytes is the most bcrypt will look at.
const maxPasswordBytes = 72

type Service struct {
	users  *store.UserStore
	hasher Hasher
	logger *slog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewService(users *store.UserStore, hasher Hasher, logger *slog.Logger) *Service {
	return &Service{users: users, hasher: hasher, logger: logger}
}

func validateNewPassword(field, password string) error {
	if err := store.ValidatePassword(field, password); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return &store.ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)}
	}
	return nil
}

// CreateUser validates the credentials, hashes the password and stores the
// user. A taken username gives store.ErrUsernameTaken.
func (s *Service) CreateUser(username, password string) (*model.User, error) {
	if err := store.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validateNewPassword("password", password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(username, digest)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// VerifyUser returns the user id when the password matches. A missing user
// and a wrong password both give (0, false, nil); the hasher runs either
// way so the two take about as long.
func (s *Service) VerifyUser(username, password string) (int64, bool, error) {
	id, digest, err := s.users.Credentials(username)
	if errors.Is(err, store.ErrNotFound) {
		s.hasher.Verify(password, s.dummy())
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !s.hasher.Verify(password, digest) {
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("recipebox-placeholder-password")
		if err != nil {
			s.logger.Error("hash placeholder password", "error", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *Service) checkPassword(userID int64, password string) error {
	digest, err := s.users.PasswordHash(userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(password, digest) {
		return ErrNoMatch
	}
	return nil
}

// ChangeUsername renames the user after re-checking their current password.
func (s *Service) ChangeUsername(userID int64, currentPassword, newUsername string) (int64, error) {
	if err := store.ValidateUsername(newUsername); err != nil {
		return 0, err
	}
	if err := s.checkPassword(userID, currentPassword); err != nil {
		return 0, err
	}
	if err := s.users.UpdateUsername(userID, newUsername); err != nil {
		return 0, err
	}
	s.logger.Info("username changed", "user_id", userID)
	return userID, nil
}

// ChangePassword replaces the password after re-checking the current one.
func (s *Service) ChangePassword(userID int64, currentPassword, newPassword string) (int64, error) {
	if err := validateNewPassword("new_password", newPassword); err != nil {
		return 0, err
	}
	if err := s.checkPassword(userID, currentPassword); err != nil {
		return 0, err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(userID, digest); err != nil {
		return 0, err
	}
	s.logger.Info("password changed", "user_id", userID)
	return userID, nil
}

// DeleteAccount removes the user and everything they own.
func (s *Service) DeleteAccount(userID int64, password string) error {
	if err := s.checkPassword(userID, password); err != nil {
		return err
	}
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
