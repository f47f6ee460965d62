package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/middleware"
	"github.com/justsurfingit/ejobs/internal/services"
)

type UserHandler struct {
	Users  *services.UserService
	Tokens *auth.TokenService
}

func NewUserHandler(users *services.UserService, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens}
}

// Register is POST /users. It accepts multipart (with an optional avatar)
// or JSON.
func (h *UserHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := optionalFile(c, "avatar")
	if err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.Register(c.Request.Context(), &req, avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Token is POST /auth/token
func (h *UserHandler) Token(c *gin.Context) {
	var req dtos.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.Tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.Tokens.TTL().Seconds()),
	})
}

// CurrentUser is GET /users/current-user
func (h *UserHandler) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateCurrentUser is PATCH /users/current-user
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	var req dtos.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := optionalFile(c, "avatar")
	if err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.UpdateCurrent(c.Request.Context(), middleware.CurrentUser(c), &req, avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Applications is GET /users/current-user/applications
func (h *UserHandler) Applications(c *gin.Context) {
	applications, err := h.Users.Applications(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}
