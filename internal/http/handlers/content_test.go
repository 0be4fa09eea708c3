package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

// brokenSource fails every read.
type brokenSource struct{}

var errUnreachable = errors.New("backend unreachable")

func (brokenSource) Projects(context.Context) ([]content.Project, error) { return nil, errUnreachable }
func (brokenSource) Skills(context.Context) ([]content.Skill, error)     { return nil, errUnreachable }
func (brokenSource) Experiences(context.Context) ([]content.Experience, error) {
	return nil, errUnreachable
}
func (brokenSource) BlogPosts(context.Context) ([]content.BlogPost, error) {
	return nil, errUnreachable
}
func (brokenSource) SkillCategories(context.Context) ([]content.SkillCategory, error) {
	return nil, errUnreachable
}
func (brokenSource) Metadata(context.Context) (content.Metadata, error) {
	return content.Metadata{}, errUnreachable
}

func contentRouter(cache *content.Cache) *gin.Engine {
	r := gin.New()
	r.GET("/api/content", NewContentHandler(cache).GetContent)
	return r
}

func TestContentUnavailableBeforeFirstLoad(t *testing.T) {
	cache := content.NewCache(brokenSource{}, logger.Nop())
	require.Error(t, cache.Load(context.Background()))

	rec := serve(contentRouter(cache), httptest.NewRequest(http.MethodGet, "/api/content", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "content_unavailable", env.Error.Code)
	assert.Equal(t, content.FetchErrorMessage, env.Error.Message)
	assert.NotContains(t, rec.Body.String(), errUnreachable.Error(), "causes stay in the logs")
}

func TestContentReturnsSnapshot(t *testing.T) {
	st := seededStore(t)
	cache := loadedCache(t, st)

	rec := serve(contentRouter(cache), httptest.NewRequest(http.MethodGet, "/api/content", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data  content.Collections `json:"data"`
		Error string              `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Error)
	assert.NotEmpty(t, body.Data.Projects)
	assert.NotEmpty(t, body.Data.Skills)
	assert.NotEmpty(t, body.Data.Metadata.SiteName)
}
