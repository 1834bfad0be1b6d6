package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"seoblog/api/internal/config"
	"seoblog/api/internal/identity"
	"seoblog/api/internal/models"
	"seoblog/api/internal/repository"
	"seoblog/api/internal/security"
	"seoblog/api/internal/service"
)

type memStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func newMemStore() *memStore {
	return &memStore{accounts: map[string]models.Account{}}
}

func (s *memStore) Create(_ context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return repository.ErrDuplicate
		}
	}
	account.CreatedAt = time.Now()
	s.accounts[account.ID] = account
	return nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *memStore) GetByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *memStore) FindByResetToken(_ context.Context, token string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ResetToken != "" && account.ResetToken == token {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *memStore) SetResetToken(_ context.Context, id string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.ResetToken = token
	s.accounts[id] = account
	return nil
}

func (s *memStore) UpdateCredential(_ context.Context, id string, salt string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.Salt = salt
	account.PasswordHash = passwordHash
	account.ResetToken = ""
	s.accounts[id] = account
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, updated models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[updated.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.Name = updated.Name
	account.About = updated.About
	account.Salt = updated.Salt
	account.PasswordHash = updated.PasswordHash
	s.accounts[updated.ID] = account
	return nil
}

func (s *memStore) List(_ context.Context, limit int, offset int) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type blogStub struct {
	blogs map[string]models.Blog
}

func (s blogStub) FindBySlug(_ context.Context, slug string) (models.Blog, error) {
	blog, ok := s.blogs[slug]
	if !ok {
		return models.Blog{}, repository.ErrBlogNotFound
	}
	return blog, nil
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type mailerStub struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *mailerStub) Send(_ context.Context, to string, subject string, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp connection refused")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *mailerStub) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type verifierStub struct {
	ident identity.Identity
	err   error
}

func (v *verifierStub) Verify(_ context.Context, _ string) (identity.Identity, error) {
	return v.ident, v.err
}

type fixture struct {
	handlers HandlerSet
	store    *memStore
	mailer   *mailerStub
	verifier *verifierStub
	tokens   *security.Tokens
}

func newFixture() *fixture {
	cfg := &config.AppConfig{
		Environment: "test",
		ClientURL:   "http://localhost:3000",
	}
	tokens := security.NewTokens(
		"session-secret", "activation-secret", "reset-secret",
		24*time.Hour, 10*time.Minute, 10*time.Minute,
	)
	store := newMemStore()
	mailer := &mailerStub{}
	verifier := &verifierStub{}
	logger := zerolog.Nop()

	auth := service.NewAuthService(store, tokens, mailer, verifier, nil, cfg.ClientURL, logger)
	users := service.NewUserService(store, nil, logger)

	return &fixture{
		handlers: HandlerSet{
			log:         logger,
			cfg:         cfg,
			authService: auth,
			userService: users,
			tokens:      tokens,
			users:       store,
			blogs:       blogStub{},
			lister:      store,
		},
		store:    store,
		mailer:   mailer,
		verifier: verifier,
		tokens:   tokens,
	}
}
