package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seoblog/api/internal/cache"
	"seoblog/api/internal/models"
	"seoblog/api/internal/security"
)

const (
	// TokenCookie mirrors the cookie set on sign-in; the Authorization
	// header takes precedence when both are present.
	TokenCookie = "token"

	ClaimsKey  = "auth_claims"
	AccountKey = "current_account"
)

// AccountSource resolves a session claim's account id to a full account.
type AccountSource interface {
	GetByID(ctx context.Context, id string) (models.Account, error)
}

// BlogSource resolves a blog slug for ownership checks.
type BlogSource interface {
	FindBySlug(ctx context.Context, slug string) (models.Blog, error)
}

// RequireSignin verifies the bearer session token and attaches its claims.
// Expiry is the only invalidation; there is no server-side revocation.
func RequireSignin(tokens *security.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := tokens.ParseSession(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, *claims)
		c.Next()
	}
}

// Auth resolves the signed-in claims to a full account and attaches it.
// Must run after RequireSignin.
func Auth(users AccountSource, accounts *cache.AccountCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		account, hit := accounts.Get(c.Request.Context(), claims.AccountID)
		if !hit {
			var err error
			account, err = users.GetByID(c.Request.Context(), claims.AccountID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			accounts.Set(c.Request.Context(), account)
		}

		c.Set(AccountKey, account)
		c.Next()
	}
}

// RequireAdmin gates admin resources. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if account.Role != models.AccountRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin resource, access denied"})
			return
		}

		c.Next()
	}
}

// CanEditBlog allows the request through only when the blog named by the
// :slug param belongs to the signed-in account. Must run after Auth.
func CanEditBlog(blogs BlogSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		slug := strings.ToLower(c.Param("slug"))
		blog, err := blogs.FindBySlug(c.Request.Context(), slug)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "blog not found"})
			return
		}

		if blog.AuthorID != account.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not authorized"})
			return
		}

		c.Next()
	}
}

// CurrentAccount returns the account attached by Auth.
func CurrentAccount(c *gin.Context) (models.Account, bool) {
	val, exists := c.Get(AccountKey)
	if !exists {
		return models.Account{}, false
	}
	account, ok := val.(models.Account)
	return account, ok
}

func sessionClaims(c *gin.Context) (security.SessionClaims, bool) {
	val, exists := c.Get(ClaimsKey)
	if !exists {
		return security.SessionClaims{}, false
	}
	claims, ok := val.(security.SessionClaims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
