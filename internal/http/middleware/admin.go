package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

const AdminSubjectKey = "admin_subject"

// RequireAdmin checks the admin session cookie. Pages redirect to the
// login form; admin API calls get a 401.
func RequireAdmin(auth *admin.Authenticator, log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequireAdmin")
	return func(c *gin.Context) {
		token, _ := c.Cookie(admin.CookieName)
		claims, err := auth.Verify(token)
		if err != nil {
			if token != "" {
				log.Debug("Rejected admin session", "error", err)
			}
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{"message": "admin session required", "code": "unauthorized"},
				})
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}
