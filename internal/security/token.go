package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// SessionClaims proves a completed sign-in.
type SessionClaims struct {
	AccountID string `json:"uid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// ActivationClaims carry a pending signup. The account row does not exist
// until the claims are consumed; the plaintext password travels inside the
// signed token and nowhere else.
type ActivationClaims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	jwt.RegisteredClaims
}

// ResetClaims link a password-reset request back to an account.
type ResetClaims struct {
	AccountID string `json:"uid"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the three token kinds. Each kind is signed
// with its own secret so a token can never be replayed across kinds.
type Tokens struct {
	sessionSecret    []byte
	activationSecret []byte
	resetSecret      []byte

	sessionTTL    time.Duration
	activationTTL time.Duration
	resetTTL      time.Duration
}

func NewTokens(sessionSecret, activationSecret, resetSecret string, sessionTTL, activationTTL, resetTTL time.Duration) *Tokens {
	return &Tokens{
		sessionSecret:    []byte(sessionSecret),
		activationSecret: []byte(activationSecret),
		resetSecret:      []byte(resetSecret),
		sessionTTL:       sessionTTL,
		activationTTL:    activationTTL,
		resetTTL:         resetTTL,
	}
}

func (t *Tokens) SessionTTL() time.Duration { return t.sessionTTL }

func (t *Tokens) IssueSession(accountID string, role string) (string, error) {
	claims := SessionClaims{
		AccountID:        accountID,
		Role:             role,
		RegisteredClaims: registered(accountID, t.sessionTTL),
	}
	return sign(claims, t.sessionSecret)
}

func (t *Tokens) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parse(token, claims, t.sessionSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *Tokens) IssueActivation(name, email, password string) (string, error) {
	claims := ActivationClaims{
		Name:             name,
		Email:            email,
		Password:         password,
		RegisteredClaims: registered(email, t.activationTTL),
	}
	return sign(claims, t.activationSecret)
}

func (t *Tokens) ParseActivation(token string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := parse(token, claims, t.activationSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *Tokens) IssueReset(accountID string) (string, error) {
	claims := ResetClaims{
		AccountID:        accountID,
		RegisteredClaims: registered(accountID, t.resetTTL),
	}
	return sign(claims, t.resetSecret)
}

func (t *Tokens) ParseReset(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parse(token, claims, t.resetSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
