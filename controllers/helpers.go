package controllers

import (
	"errors"
	"net/http"

	"fitgenix/middlewares"
	"fitgenix/services"
	"fitgenix/utils"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error": msg} with the status matching err. fallback is
// the message used for unexpected errors, whose details stay in the log.
func respondError(c *gin.Context, err error, fallback string) {
	var genErr *services.GenerationError
	switch {
	case errors.As(err, &genErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": genErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmailExists),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.Log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get(middlewares.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// requireUser reads the user id or aborts with 401.
func requireUser(c *gin.Context) (uint, bool) {
	id, ok := userIDFromCtx(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
