package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"seoblog/api/internal/identity"
	"seoblog/api/internal/middleware"
	"seoblog/api/internal/models"
	"seoblog/api/internal/security"
	"seoblog/api/internal/service"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func publicUser(account models.Account) userResponse {
	return userResponse{
		ID:       account.ID,
		Username: account.Username,
		Name:     account.Name,
		Email:    account.Email,
		Role:     string(account.Role),
	}
}

type preSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) PreSignup(c *gin.Context) {
	var req preSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.PreSignup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, security.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailSend):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Email has been sent to %s. Follow the instructions to activate your account", req.Email),
	})
}

type signupRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.authService.Signup(c.Request.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired), errors.Is(err, security.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "expired link, signup again"})
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signup successful! Please signin"})
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrCredentialMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.setTokenCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"token":   result.Token,
		"user":    publicUser(result.User),
		"message": "Signin successful!",
	})
}

// Signout is stateless: the cookie is cleared and the client discards its
// token. An issued session token stays valid until it expires.
func (h HandlerSet) Signout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signout success"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Email has been sent to %s. Follow the instructions to reset your password. Link expires in 10 minutes", req.Email),
	})
}

type resetPasswordRequest struct {
	ResetPasswordLink string `json:"resetPasswordLink" binding:"required"`
	NewPassword       string `json:"newPassword" binding:"required,min=6"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.ResetPasswordLink, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired), errors.Is(err, security.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "expired link, try again"})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "something went wrong, try again"})
		case errors.Is(err, security.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Great! Now you can login with your new password"})
}

type googleLoginRequest struct {
	TokenID string `json:"tokenId" binding:"required"`
}

func (h HandlerSet) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), req.TokenID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrExternalToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Google login failed, try again."})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	h.setTokenCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  publicUser(result.User),
	})
}

// Secret is a signed-in probe; it echoes the verified claims.
func (h HandlerSet) Secret(c *gin.Context) {
	val, _ := c.Get(middleware.ClaimsKey)
	claims, ok := val.(security.SessionClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": claims.AccountID, "role": claims.Role}})
}

func (h HandlerSet) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(h.tokens.SessionTTL().Seconds())
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
}
