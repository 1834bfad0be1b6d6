package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"seoblog/api/internal/cache"
	"seoblog/api/internal/identity"
	"seoblog/api/internal/ids"
	"seoblog/api/internal/mail"
	"seoblog/api/internal/models"
	"seoblog/api/internal/repository"
	"seoblog/api/internal/security"
)

var (
	ErrDuplicateEmail     = errors.New("email is taken")
	ErrAccountNotFound    = errors.New("user with that email does not exist")
	ErrCredentialMismatch = errors.New("email and password do not match")
	ErrEmailSend          = errors.New("email could not be sent")
)

// UserStore is the slice of the document store the lifecycle needs: unique
// lookups, insert with uniqueness enforcement, and targeted updates.
type UserStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	FindByResetToken(ctx context.Context, token string) (models.Account, error)
	SetResetToken(ctx context.Context, id string, token string) error
	UpdateCredential(ctx context.Context, id string, salt string, passwordHash string) error
	UpdateProfile(ctx context.Context, account models.Account) error
}

type Mailer interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}

// AuthService drives the account lifecycle: pre-signup, activation, sign-in,
// forgot/reset password, and federated login. Tokens are the only session
// state; nothing here persists between requests except account rows.
type AuthService struct {
	users     UserStore
	tokens    *security.Tokens
	mailer    Mailer
	verifier  IdentityVerifier
	accounts  *cache.AccountCache
	clientURL string
	log       zerolog.Logger
}

func NewAuthService(
	users UserStore,
	tokens *security.Tokens,
	mailer Mailer,
	verifier IdentityVerifier,
	accounts *cache.AccountCache,
	clientURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		verifier:  verifier,
		accounts:  accounts,
		clientURL: clientURL,
		log:       log,
	}
}

type AuthResult struct {
	Token string
	User  models.Account
}

// PreSignup starts activation: no account row is created, the proposed
// name/email/password travel inside the signed activation token only.
func (s *AuthService) PreSignup(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if len(password) < security.MinPasswordLength {
		return security.ErrPasswordTooShort
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return fmt.Errorf("find account: %w", err)
	}

	token, err := s.tokens.IssueActivation(name, email, password)
	if err != nil {
		return err
	}

	subject, html := mail.ActivationMessage(s.clientURL, token)
	if err := s.mailer.Send(ctx, email, subject, html); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("activation email failed")
		return ErrEmailSend
	}
	return nil
}

// Signup consumes an activation token and materializes the account.
func (s *AuthService) Signup(ctx context.Context, token string) (models.Account, error) {
	claims, err := s.tokens.ParseActivation(token)
	if err != nil {
		return models.Account{}, err
	}

	username := ids.Username()
	account := models.Account{
		ID:       ids.New(),
		Username: username,
		Name:     claims.Name,
		Email:    claims.Email,
		Profile:  fmt.Sprintf("%s/profile/%s", s.clientURL, username),
		Role:     models.AccountRoleUser,
	}
	if err := security.SetPassword(&account, claims.Password); err != nil {
		return models.Account{}, err
	}

	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// a concurrent signup for the same email won the race
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return AuthResult{}, ErrAccountNotFound
		}
		return AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	if !security.VerifyPassword(account, password) {
		return AuthResult{}, ErrCredentialMismatch
	}

	token, err := s.tokens.IssueSession(account.ID, string(account.Role))
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: account}, nil
}

// ForgotPassword issues a reset token and persists it on the account; a
// prior pending reset is overwritten so at most one stays live.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	token, err := s.tokens.IssueReset(account.ID)
	if err != nil {
		return err
	}

	if err := s.users.SetResetToken(ctx, account.ID, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.accounts.Invalidate(ctx, account.ID)

	subject, html := mail.ResetMessage(s.clientURL, token)
	if err := s.mailer.Send(ctx, email, subject, html); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("reset email failed")
		return ErrEmailSend
	}
	return nil
}

// ResetPassword requires both proofs: the signed token (authentic and
// unexpired) and the persisted reset_token match (the flow is still live).
// A consumed token fails the second check.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if _, err := s.tokens.ParseReset(token); err != nil {
		return err
	}

	if len(newPassword) < security.MinPasswordLength {
		return security.ErrPasswordTooShort
	}

	account, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	if err := security.SetPassword(&account, newPassword); err != nil {
		return err
	}

	if err := s.users.UpdateCredential(ctx, account.ID, account.Salt, account.PasswordHash); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	s.accounts.Invalidate(ctx, account.ID)

	return nil
}

// GoogleLogin bridges a verified Google identity onto a local account,
// creating one on first login. New accounts get a password seeded from the
// issuer's jti claim; local sign-in is not the intended path for them.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (AuthResult, error) {
	ident, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return AuthResult{}, identity.ErrExternalToken
	}

	email := strings.ToLower(ident.Email)
	account, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		token, err := s.tokens.IssueSession(account.ID, string(account.Role))
		if err != nil {
			return AuthResult{}, err
		}
		return AuthResult{Token: token, User: account}, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	username := ids.Username()
	account = models.Account{
		ID:       ids.New(),
		Username: username,
		Name:     ident.Name,
		Email:    email,
		Profile:  fmt.Sprintf("%s/profile/%s", s.clientURL, username),
		Role:     models.AccountRoleUser,
	}
	if err := security.SetPassword(&account, ident.TokenID); err != nil {
		return AuthResult{}, err
	}

	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.IssueSession(account.ID, string(account.Role))
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: account}, nil
}
