package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/boundary"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

// Recovery turns a panic anywhere in the request into a report and a 500.
// API paths get a JSON envelope; pages get whatever fallback renders.
func Recovery(registry *boundary.Registry, log *logger.Logger, fallback func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			err := &boundary.PanicError{Value: r, Stack: stack}
			route := c.Request.Method + " " + c.Request.URL.Path
			log.Error("Recovered from panic", "route", route, "error", err)
			registry.Report(err, fmt.Sprintf("in request %s\n%s", route, stack))

			if c.Writer.Written() {
				c.Abort()
				return
			}
			if strings.HasPrefix(c.Request.URL.Path, "/api/") || fallback == nil {
				response.RespondError(c, http.StatusInternalServerError, "internal_error",
					fmt.Errorf("internal server error"))
				c.Abort()
				return
			}
			c.Status(http.StatusInternalServerError)
			fallback(c)
			c.Abort()
		}()
		c.Next()
	}
}
