package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var ErrExternalToken = errors.New("external token invalid")

// Identity is the verified subset of a federated ID token: enough to find
// or create a local account. TokenID is the issuer's jti claim.
type Identity struct {
	Email   string
	Name    string
	TokenID string
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks Google-issued ID tokens against Google's published
// JWKS. It is constructed once with its configuration and passed to the
// handlers that need it; there is no package-level client.
type GoogleVerifier struct {
	clientID string
	jwks     *keyfunc.JWKS
}

func NewGoogleVerifier(ctx context.Context, clientID string, log zerolog.Logger) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id is required")
	}

	jwks, err := keyfunc.Get(googleJWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Msg("google jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch google jwks: %w", err)
	}

	return &GoogleVerifier{clientID: clientID, jwks: jwks}, nil
}

// Verify validates signature, audience, issuer and expiry, and rejects
// identities whose email Google has not verified.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrExternalToken
	}

	// Google issues both forms.
	if claims.Issuer != "accounts.google.com" && claims.Issuer != "https://accounts.google.com" {
		return Identity{}, ErrExternalToken
	}

	if !claims.EmailVerified {
		return Identity{}, ErrExternalToken
	}

	return Identity{
		Email:   claims.Email,
		Name:    claims.Name,
		TokenID: claims.ID,
	}, nil
}

func (v *GoogleVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
