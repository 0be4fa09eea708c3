package content

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

// FetchErrorMessage is what visitors see when a load fails, whatever the cause.
const FetchErrorMessage = "Failed to load content. Please try again later."

var ErrFetchFailed = errors.New("content fetch failed")

// Source is the content-access collaborator the cache reads from.
type Source interface {
	Projects(ctx context.Context) ([]Project, error)
	Skills(ctx context.Context) ([]Skill, error)
	Experiences(ctx context.Context) ([]Experience, error)
	BlogPosts(ctx context.Context) ([]BlogPost, error)
	SkillCategories(ctx context.Context) ([]SkillCategory, error)
	Metadata(ctx context.Context) (Metadata, error)
}

// Cache holds the last successfully fetched Collections. A load either
// replaces all six collections or none of them.
type Cache struct {
	src Source
	log *logger.Logger

	loadMu sync.Mutex

	mu       sync.RWMutex
	data     Collections
	loaded   bool
	loading  bool
	err      error
	loadedAt time.Time
}

func NewCache(src Source, log *logger.Logger) *Cache {
	return &Cache{src: src, log: log.With("service", "ContentCache")}
}

// Load fetches the six collections concurrently. The first failure cancels
// the others and leaves the previous data in place.
func (c *Cache) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	var next Collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Projects, err = c.src.Projects(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Skills, err = c.src.Skills(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Experiences, err = c.src.Experiences(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.BlogPosts, err = c.src.BlogPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.SkillCategories, err = c.src.SkillCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Metadata, err = c.src.Metadata(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.log.Error("Content fetch failed", "error", err)
		c.err = ErrFetchFailed
		return ErrFetchFailed
	}
	c.data = next
	c.loaded = true
	c.err = nil
	c.loadedAt = time.Now()
	c.log.Debug("Content loaded",
		"projects", len(next.Projects),
		"skills", len(next.Skills),
		"experiences", len(next.Experiences),
		"blog_posts", len(next.BlogPosts),
		"skill_categories", len(next.SkillCategories),
	)
	return nil
}

// Refresh repeats the same fetch. There is no retry on failure.
func (c *Cache) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Snapshot returns a copy of the current collections.
func (c *Cache) Snapshot() Collections {
	c.mu.RLock()
	defer c.mu.RUnlock()
	md := c.data.Metadata
	md.Keywords = slices.Clone(md.Keywords)
	md.SocialProfiles = slices.Clone(md.SocialProfiles)
	md.Certifications = slices.Clone(md.Certifications)
	return Collections{
		Projects:        slices.Clone(c.data.Projects),
		Skills:          slices.Clone(c.data.Skills),
		Experiences:     slices.Clone(c.data.Experiences),
		BlogPosts:       slices.Clone(c.data.BlogPosts),
		SkillCategories: slices.Clone(c.data.SkillCategories),
		Metadata:        md,
	}
}

// Err is ErrFetchFailed after a failed load and nil after a successful one.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ErrorMessage is the visitor-facing text for Err, or "".
func (c *Cache) ErrorMessage() string {
	if c.Err() != nil {
		return FetchErrorMessage
	}
	return ""
}

func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
