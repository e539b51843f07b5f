package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the account ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the account email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString("user_email")
}

// GetUserRole extracts the account role from the Gin context
func GetUserRole(c *gin.Context) string {
	return c.GetString("user_role")
}

// AdminActor names the administrator performing an action, for the
// credential audit trail. PIN sessions have no account; the token subject
// identifies them instead.
func AdminActor(c *gin.Context) string {
	if email := GetUserEmail(c); email != "" {
		return email
	}
	return c.GetString("token_subject")
}

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
