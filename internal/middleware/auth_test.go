package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoblog/api/internal/middleware"
	"seoblog/api/internal/models"
	"seoblog/api/internal/repository"
	"seoblog/api/internal/security"
)

type accountSourceStub struct {
	accounts map[string]models.Account
}

func (s accountSourceStub) GetByID(_ context.Context, id string) (models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

type blogSourceStub struct {
	blogs map[string]models.Blog
}

func (s blogSourceStub) FindBySlug(_ context.Context, slug string) (models.Blog, error) {
	blog, ok := s.blogs[slug]
	if !ok {
		return models.Blog{}, repository.ErrBlogNotFound
	}
	return blog, nil
}

func newTestTokens() *security.Tokens {
	return security.NewTokens(
		"session-secret", "activation-secret", "reset-secret",
		24*time.Hour, 10*time.Minute, 10*time.Minute,
	)
}

func fixtureAccounts() accountSourceStub {
	return accountSourceStub{accounts: map[string]models.Account{
		"user1":  {ID: "user1", Username: "writer", Role: models.AccountRoleUser},
		"admin1": {ID: "admin1", Username: "boss", Role: models.AccountRoleAdmin},
	}}
}

func newRouter(tokens *security.Tokens, users middleware.AccountSource, blogs middleware.BlogSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	signedIn := router.Group("", middleware.RequireSignin(tokens), middleware.Auth(users, nil))
	signedIn.GET("/me", func(c *gin.Context) {
		account, _ := middleware.CurrentAccount(c)
		c.JSON(http.StatusOK, gin.H{"id": account.ID})
	})
	signedIn.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	signedIn.PUT("/blog/:slug", middleware.CanEditBlog(blogs), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func do(router *gin.Engine, method, path, token string, useCookie bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		if useCookie {
			req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireSignin(t *testing.T) {
	tokens := newTestTokens()
	router := newRouter(tokens, fixtureAccounts(), blogSourceStub{})

	rec := do(router, http.MethodGet, "/me", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodGet, "/me", "garbage", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.IssueSession("user1", "user")
	require.NoError(t, err)
	rec = do(router, http.MethodGet, "/me", token, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user1")
}

func TestRequireSigninExpired(t *testing.T) {
	expired := security.NewTokens("session-secret", "a", "r", -time.Minute, time.Minute, time.Minute)
	router := newRouter(expired, fixtureAccounts(), blogSourceStub{})

	token, err := expired.IssueSession("user1", "user")
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/me", token, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSigninCookieFallback(t *testing.T) {
	tokens := newTestTokens()
	router := newRouter(tokens, fixtureAccounts(), blogSourceStub{})

	token, err := tokens.IssueSession("user1", "user")
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/me", token, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthUnknownAccount(t *testing.T) {
	tokens := newTestTokens()
	router := newRouter(tokens, fixtureAccounts(), blogSourceStub{})

	token, err := tokens.IssueSession("ghost", "user")
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/me", token, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTestTokens()
	router := newRouter(tokens, fixtureAccounts(), blogSourceStub{})

	userToken, err := tokens.IssueSession("user1", "user")
	require.NoError(t, err)
	rec := do(router, http.MethodGet, "/admin", userToken, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := tokens.IssueSession("admin1", "admin")
	require.NoError(t, err)
	rec = do(router, http.MethodGet, "/admin", adminToken, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCanEditBlog(t *testing.T) {
	tokens := newTestTokens()
	blogs := blogSourceStub{blogs: map[string]models.Blog{
		"first-post": {ID: "blog1", Slug: "first-post", AuthorID: "user1"},
	}}
	router := newRouter(tokens, fixtureAccounts(), blogs)

	ownerToken, err := tokens.IssueSession("user1", "user")
	require.NoError(t, err)
	rec := do(router, http.MethodPut, "/blog/first-post", ownerToken, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	// slug matching is case-insensitive
	rec = do(router, http.MethodPut, "/blog/First-Post", ownerToken, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	otherToken, err := tokens.IssueSession("admin1", "admin")
	require.NoError(t, err)
	rec = do(router, http.MethodPut, "/blog/first-post", otherToken, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodPut, "/blog/missing", ownerToken, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
