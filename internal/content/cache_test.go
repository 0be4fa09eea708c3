package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

type fakeSource struct {
	data   Collections
	failOn string
	calls  int
}

var errBoom = errors.New("boom")

func (f *fakeSource) fail(name string) error {
	if f.failOn == name {
		return errBoom
	}
	return nil
}

func (f *fakeSource) Projects(ctx context.Context) ([]Project, error) {
	f.calls++
	return f.data.Projects, f.fail("projects")
}
func (f *fakeSource) Skills(ctx context.Context) ([]Skill, error) {
	return f.data.Skills, f.fail("skills")
}
func (f *fakeSource) Experiences(ctx context.Context) ([]Experience, error) {
	return f.data.Experiences, f.fail("experiences")
}
func (f *fakeSource) BlogPosts(ctx context.Context) ([]BlogPost, error) {
	return f.data.BlogPosts, f.fail("blog_posts")
}
func (f *fakeSource) SkillCategories(ctx context.Context) ([]SkillCategory, error) {
	return f.data.SkillCategories, f.fail("skill_categories")
}
func (f *fakeSource) Metadata(ctx context.Context) (Metadata, error) {
	return f.data.Metadata, f.fail("metadata")
}

func sampleCollections(tag string) Collections {
	return Collections{
		Projects:        []Project{{ID: "p-" + tag, Title: "Project " + tag}},
		Skills:          []Skill{{ID: "s-" + tag, Name: "Go"}},
		Experiences:     []Experience{{ID: "e-" + tag, Company: "Acme"}},
		BlogPosts:       []BlogPost{{ID: "b-" + tag, Title: "Hello"}},
		SkillCategories: []SkillCategory{{ID: "c-" + tag, Name: "Languages"}},
		Metadata:        Metadata{SiteName: "Site " + tag},
	}
}

func TestCacheLoadReplacesAllCollections(t *testing.T) {
	src := &fakeSource{data: sampleCollections("1")}
	c := NewCache(src, logger.Nop())

	require.NoError(t, c.Load(context.Background()))
	assert.True(t, c.Loaded())
	assert.NoError(t, c.Err())
	assert.Empty(t, c.ErrorMessage())
	assert.Equal(t, src.data, c.Snapshot())
}

func TestCacheLoadIsAllOrNothing(t *testing.T) {
	for _, failing := range []string{"projects", "skills", "experiences", "blog_posts", "skill_categories", "metadata"} {
		failing := failing
		t.Run(failing, func(t *testing.T) {
			src := &fakeSource{data: sampleCollections("1")}
			c := NewCache(src, logger.Nop())
			require.NoError(t, c.Load(context.Background()))

			src.data = sampleCollections("2")
			src.failOn = failing
			err := c.Load(context.Background())
			require.ErrorIs(t, err, ErrFetchFailed)

			assert.Equal(t, sampleCollections("1"), c.Snapshot(), "previous data must survive a failed load")
			assert.ErrorIs(t, c.Err(), ErrFetchFailed)
			assert.Equal(t, FetchErrorMessage, c.ErrorMessage())
		})
	}
}

func TestCacheFailedFirstLoadLeavesEmpty(t *testing.T) {
	src := &fakeSource{data: sampleCollections("1"), failOn: "metadata"}
	c := NewCache(src, logger.Nop())

	require.Error(t, c.Load(context.Background()))
	assert.False(t, c.Loaded())
	assert.Empty(t, c.Snapshot().Projects)
}

func TestCacheRefreshClearsError(t *testing.T) {
	src := &fakeSource{data: sampleCollections("1"), failOn: "skills"}
	c := NewCache(src, logger.Nop())
	require.Error(t, c.Load(context.Background()))

	src.failOn = ""
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.Err())
	assert.Equal(t, src.data, c.Snapshot())
	assert.Equal(t, 2, src.calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	src := &fakeSource{data: sampleCollections("1")}
	c := NewCache(src, logger.Nop())
	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	snap.Projects[0].Title = "mutated"
	assert.Equal(t, "Project 1", c.Snapshot().Projects[0].Title)
}
