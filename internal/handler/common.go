package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolshub/api/internal/lifecycle"
)

// actorFrom builds the lifecycle actor from whatever the auth middleware
// stored on the context. An empty actor means the request is anonymous.
func actorFrom(c *gin.Context) lifecycle.Actor {
	actor := lifecycle.Actor{}
	if email, exists := c.Get("userEmail"); exists {
		actor.Email = email.(string)
	}
	if isAdmin, exists := c.Get("isAdmin"); exists {
		actor.Admin = isAdmin.(bool)
	}
	return actor
}

// respondLifecycleError maps the controller's error taxonomy onto HTTP.
func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respondStoreError covers load/save failures on the tool collection.
func respondStoreError(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tool store unavailable: " + err.Error()})
}
