package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/moneybalancer/internal/auth"
	"github.com/mmynk/moneybalancer/internal/middleware"
	"github.com/mmynk/moneybalancer/internal/models"
	"github.com/mmynk/moneybalancer/internal/service"
)

// UserHandler serves user registration, login, and the current-user view.
type UserHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	groups        *service.GroupService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, groups *service.GroupService) *UserHandler {
	return &UserHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		groups:        groups,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type fullUserResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Nickname string          `json:"nickname"`
	Groups   []*models.Group `json:"groups"`
}

// Register creates a new user account and returns a session token.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authenticator.Register(c.Request.Context(), req.Username, req.Nickname, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("Registration failed", "username", req.Username, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Login authenticates a user and returns a session token.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authenticator.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("Login failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// CurrentUser returns the authenticated user with all their groups.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.groups.UserByID(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if user == nil {
		// Token refers to a deleted account.
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
		return
	}

	groups, err := h.groups.GroupsOfUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	c.JSON(http.StatusOK, fullUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Nickname: user.Nickname,
		Groups:   groups,
	})
}
