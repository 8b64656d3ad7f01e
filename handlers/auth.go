// auth.go - Handles user registration, login and the current-user lookup

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"calorie-backend/auth"
	"calorie-backend/middleware"
	"calorie-backend/streak"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct { // Body of POST /auth/register
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct { // Body of POST /auth/login
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	svc *auth.Service
	loc *time.Location // Zone for deciding whether a streak has lapsed
	log *slog.Logger
}

func NewAuthHandler(svc *auth.Service, loc *time.Location, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, loc: loc, log: log}
}

func sessionJSON(s *auth.Session) gin.H {
	return gin.H{
		"token":     s.Token,
		"expiresAt": s.ExpiresAt,
		"user":      gin.H{"id": s.User.ID, "name": s.User.Name},
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := h.svc.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sessionJSON(session))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := h.svc.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sessionJSON(session))
}

// CurrentUser returns the caller's profile with the streak as of today.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user.Streak = streak.Current(streak.State{Streak: user.Streak, LastLogDate: user.LastLogDate}, time.Now(), h.loc)
	c.JSON(http.StatusOK, user)
}
