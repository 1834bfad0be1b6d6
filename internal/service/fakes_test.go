package service_test

import (
	"context"
	"errors"
	"sync"

	"seoblog/api/internal/identity"
	"seoblog/api/internal/models"
	"seoblog/api/internal/repository"
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

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
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

func (v verifierStub) Verify(_ context.Context, _ string) (identity.Identity, error) {
	return v.ident, v.err
}
