// errors.go - Maps service errors to HTTP responses in one place

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"calorie-backend/auth"
	"calorie-backend/foodlog"
	"calorie-backend/nutrition"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError writes the status and message for err. Anything unrecognised is
// a 500 whose detail stays in the server log.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Credentials"})
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, foodlog.ErrValidation),
		errors.Is(err, nutrition.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, foodlog.ErrUnauthenticated),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + fe.Field() + ": failed " + fe.Tag()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
}
