package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// queryTokenRouteSuffix marks routes the browser opens as plain downloads.
// Only those may carry the session token in the query string.
const queryTokenRouteSuffix = "/export"

// bearerToken extracts the token from the Authorization header. Download
// routes also accept ?token= because the browser cannot set headers there.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if strings.HasSuffix(c.FullPath(), queryTokenRouteSuffix) {
		return c.Query("token")
	}
	return ""
}
