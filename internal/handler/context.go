package handler

import "github.com/gin-gonic/gin"

// currentUserID returns the authenticated user's id from the gin context,
// or 0 for an anonymous request (routes behind optional auth).
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
