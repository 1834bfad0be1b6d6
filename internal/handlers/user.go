package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seoblog/api/internal/middleware"
	"seoblog/api/internal/models"
	"seoblog/api/internal/security"
	"seoblog/api/internal/service"
)

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Profile   string    `json:"profile"`
	About     string    `json:"about"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func profile(account models.Account) profileResponse {
	return profileResponse{
		ID:        account.ID,
		Username:  account.Username,
		Name:      account.Name,
		Email:     account.Email,
		Profile:   account.Profile,
		About:     account.About,
		Role:      string(account.Role),
		CreatedAt: account.CreatedAt,
	}
}

func (h HandlerSet) Profile(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, profile(account))
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	About    string `json:"about"`
	Password string `json:"password"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), account, service.UpdateProfileInput{
		Name:     req.Name,
		About:    req.About,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, security.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, profile(updated))
}

// PublicProfile exposes an account by username with credential fields
// stripped.
func (h HandlerSet) PublicProfile(c *gin.Context) {
	username := c.Param("username")

	account, err := h.userService.PublicProfile(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile(account)})
}

type accountLister interface {
	List(ctx context.Context, limit int, offset int) ([]models.Account, error)
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	accounts, err := h.lister.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]profileResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, profile(account))
	}

	c.JSON(http.StatusOK, gin.H{"users": items})
}
