package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// getUserIDFromContext pulls the authenticated user id set by the auth
// middleware; it writes the 401 response itself when missing.
func getUserIDFromContext(c *gin.Context, logger *logrus.Logger) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		logger.Error("user_id not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  false,
			"message": "Unauthorized",
		})
		return uuid.Nil, false
	}

	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		logger.Error("user_id in context is not uuid.UUID")
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  false,
			"message": "Unauthorized",
		})
		return uuid.Nil, false
	}

	return userID, true
}
