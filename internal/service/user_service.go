package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"seoblog/api/internal/cache"
	"seoblog/api/internal/models"
	"seoblog/api/internal/repository"
	"seoblog/api/internal/security"
)

// UserService covers profile reads and edits for signed-in accounts.
type UserService struct {
	users    UserStore
	accounts *cache.AccountCache
	log      zerolog.Logger
}

func NewUserService(users UserStore, accounts *cache.AccountCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, accounts: accounts, log: log}
}

type UpdateProfileInput struct {
	Name     string
	About    string
	Password string
}

// UpdateProfile applies the changed fields; a non-empty password re-derives
// the credential.
func (s *UserService) UpdateProfile(ctx context.Context, account models.Account, input UpdateProfileInput) (models.Account, error) {
	if input.Name != "" {
		account.Name = input.Name
	}
	if input.About != "" {
		account.About = input.About
	}
	if input.Password != "" {
		if err := security.SetPassword(&account, input.Password); err != nil {
			return models.Account{}, err
		}
	}

	if err := s.users.UpdateProfile(ctx, account); err != nil {
		return models.Account{}, fmt.Errorf("update profile: %w", err)
	}
	s.accounts.Invalidate(ctx, account.ID)

	return account, nil
}

func (s *UserService) PublicProfile(ctx context.Context, username string) (models.Account, error) {
	account, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}
