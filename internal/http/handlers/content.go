package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
)

type ContentHandler struct {
	cache *content.Cache
}

func NewContentHandler(cache *content.Cache) *ContentHandler {
	return &ContentHandler{cache: cache}
}

type contentResponse struct {
	Data     content.Collections `json:"data"`
	Error    string              `json:"error,omitempty"`
	Loading  bool                `json:"loading"`
	LoadedAt time.Time           `json:"loaded_at"`
}

// GetContent returns the cached collections. After a failed refresh the
// previous data is still served alongside the error message.
func (h *ContentHandler) GetContent(c *gin.Context) {
	if !h.cache.Loaded() {
		response.RespondError(c, http.StatusServiceUnavailable, "content_unavailable", errors.New(content.FetchErrorMessage))
		return
	}
	response.RespondOK(c, contentResponse{
		Data:     h.cache.Snapshot(),
		Error:    h.cache.ErrorMessage(),
		Loading:  h.cache.Loading(),
		LoadedAt: h.cache.LoadedAt(),
	})
}
