package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/ogimage"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

type OGHandler struct {
	renderer *ogimage.Renderer
	log      *logger.Logger
}

func NewOGHandler(renderer *ogimage.Renderer, log *logger.Logger) *OGHandler {
	return &OGHandler{renderer: renderer, log: log.With("handler", "OGHandler")}
}

// Image renders the preview card from the title, subtitle and tagline
// query parameters.
func (h *OGHandler) Image(c *gin.Context) {
	png, err := h.renderer.Render(ogimage.ParamsFromQuery(c.Request.URL.Query()))
	if err != nil {
		h.log.Error("Failed to render OG image", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "render_failed", errors.New("failed to render image"))
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
