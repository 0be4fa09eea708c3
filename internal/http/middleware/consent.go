package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
)

// ConsentFrom reads the analytics consent cookie. A missing cookie is
// ConsentUnset.
func ConsentFrom(c *gin.Context) analytics.Consent {
	raw, err := c.Cookie(analytics.ConsentCookie)
	if err != nil {
		return analytics.ConsentUnset
	}
	return analytics.ParseConsent(raw)
}
