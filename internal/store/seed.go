package store

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
)

//go:embed seed.yaml
var builtinSeed []byte

// SiteSeed is the site_metadata row as written in a seed file.
type SiteSeed struct {
	SiteName    string   `yaml:"site_name" validate:"required,max=100"`
	SiteURL     string   `yaml:"site_url" validate:"omitempty,url"`
	Description string   `yaml:"description" validate:"max=300"`
	Keywords    []string `yaml:"keywords"`
	OGImagePath string   `yaml:"og_image_path"`
}

// Seed is the full content of the site. Seeding replaces every content
// table with it.
type Seed struct {
	Site            SiteSeed                `yaml:"site"`
	Owner           content.ContactInfo     `yaml:"owner"`
	SocialProfiles  []content.SocialProfile `yaml:"social_profiles"`
	SkillCategories []content.SkillCategory `yaml:"skill_categories"`
	Skills          []content.Skill         `yaml:"skills"`
	Projects        []content.Project       `yaml:"projects"`
	Experiences     []content.Experience    `yaml:"experiences"`
	Certifications  []content.Certification `yaml:"certifications"`
	BlogPosts       []content.BlogPost      `yaml:"blog_posts"`
}

// LoadSeed reads a seed file. An empty path selects the built-in seed.
func LoadSeed(path string) (Seed, error) {
	data := builtinSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
		}
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return s, nil
}

// normalize links owned records to the owner and fills missing timestamps.
func (s *Seed) normalize(now time.Time) {
	stamp := func(created, updated *time.Time) {
		if created.IsZero() {
			*created = now
		}
		if updated.IsZero() {
			*updated = *created
		}
	}
	owner := s.Owner.ID
	stamp(&s.Owner.CreatedAt, &s.Owner.UpdatedAt)
	for i := range s.SocialProfiles {
		if s.SocialProfiles[i].ContactInfoID == "" {
			s.SocialProfiles[i].ContactInfoID = owner
		}
		stamp(&s.SocialProfiles[i].CreatedAt, &s.SocialProfiles[i].UpdatedAt)
	}
	for i := range s.SkillCategories {
		stamp(&s.SkillCategories[i].CreatedAt, &s.SkillCategories[i].UpdatedAt)
	}
	for i := range s.Skills {
		stamp(&s.Skills[i].CreatedAt, &s.Skills[i].UpdatedAt)
	}
	for i := range s.Projects {
		stamp(&s.Projects[i].CreatedAt, &s.Projects[i].UpdatedAt)
	}
	for i := range s.Experiences {
		if s.Experiences[i].ContactInfoID == "" {
			s.Experiences[i].ContactInfoID = owner
		}
		stamp(&s.Experiences[i].CreatedAt, &s.Experiences[i].UpdatedAt)
	}
	for i := range s.Certifications {
		if s.Certifications[i].ContactInfoID == "" {
			s.Certifications[i].ContactInfoID = owner
		}
		stamp(&s.Certifications[i].CreatedAt, &s.Certifications[i].UpdatedAt)
	}
	for i := range s.BlogPosts {
		stamp(&s.BlogPosts[i].CreatedAt, &s.BlogPosts[i].UpdatedAt)
	}
}

// Validate checks every record's field rules and the references between
// records. All problems are reported together.
func (s Seed) Validate() error {
	var errs []error
	check := func(kind, id string, v any) {
		if err := content.Validate(v); err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", kind, id, err))
		}
	}
	ids := func(kind string) func(id string) {
		seen := map[string]bool{}
		return func(id string) {
			if seen[id] {
				errs = append(errs, fmt.Errorf("%s %q: duplicate id", kind, id))
			}
			seen[id] = true
		}
	}

	check("site", s.Site.SiteName, s.Site)
	check("owner", s.Owner.ID, s.Owner)

	dup := ids("social profile")
	for _, sp := range s.SocialProfiles {
		dup(sp.ID)
		check("social profile", sp.ID, sp)
	}

	categories := map[string]bool{}
	dup = ids("skill category")
	for _, c := range s.SkillCategories {
		dup(c.ID)
		check("skill category", c.ID, c)
		categories[c.ID] = true
	}

	skills := map[string]bool{}
	dup = ids("skill")
	for _, sk := range s.Skills {
		dup(sk.ID)
		check("skill", sk.ID, sk)
		if !categories[sk.CategoryID] {
			errs = append(errs, fmt.Errorf("skill %q: unknown category %q", sk.ID, sk.CategoryID))
		}
		skills[sk.ID] = true
	}

	projects := map[string]bool{}
	dup = ids("project")
	for _, p := range s.Projects {
		dup(p.ID)
		check("project", p.ID, p)
		projects[p.ID] = true
	}
	for _, p := range s.Projects {
		for _, id := range p.SkillIDs {
			if !skills[id] {
				errs = append(errs, fmt.Errorf("project %q: unknown skill %q", p.ID, id))
			}
		}
		for _, id := range p.RelatedProjectIDs {
			switch {
			case id == p.ID:
				errs = append(errs, fmt.Errorf("project %q: related to itself", p.ID))
			case !projects[id]:
				errs = append(errs, fmt.Errorf("project %q: unknown related project %q", p.ID, id))
			}
		}
	}

	dup = ids("experience")
	for _, e := range s.Experiences {
		dup(e.ID)
		check("experience", e.ID, e)
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			errs = append(errs, fmt.Errorf("experience %q: end date before start date", e.ID))
		}
	}

	dup = ids("certification")
	for _, c := range s.Certifications {
		dup(c.ID)
		check("certification", c.ID, c)
	}

	dup = ids("blog post")
	for _, p := range s.BlogPosts {
		dup(p.ID)
		check("blog post", p.ID, p)
	}
	return errors.Join(errs...)
}

// Seed validates s and replaces all content tables with it in a single
// transaction. Analytics, visitors and contact messages are untouched.
func (st *Store) Seed(ctx context.Context, s Seed) error {
	s.normalize(time.Now().UTC())
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}

	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"related_projects", "project_skills", "projects", "skills", "skill_categories",
		"blog_posts", "certifications", "experiences", "social_profiles", "site_metadata", "contact_info",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertSeed(ctx, tx, s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	st.log.Info("Content seeded",
		"projects", len(s.Projects),
		"skills", len(s.Skills),
		"experiences", len(s.Experiences),
		"blog_posts", len(s.BlogPosts),
	)
	return nil
}

func insertSeed(ctx context.Context, tx *sql.Tx, s Seed) error {
	o := s.Owner
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO contact_info (id, name, title, email, phone, location, bio, avatar_url, resume_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Title, o.Email, o.Phone, o.Location, o.Bio, o.AvatarURL, o.ResumeURL,
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt)); err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}

	keywords, err := jsonText(s.Site.Keywords)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO site_metadata (id, site_name, site_url, description, keywords, og_image_path, owner_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		s.Site.SiteName, s.Site.SiteURL, s.Site.Description, keywords, s.Site.OGImagePath, o.ID,
		formatTime(o.UpdatedAt)); err != nil {
		return fmt.Errorf("insert site metadata: %w", err)
	}

	for _, sp := range s.SocialProfiles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO social_profiles (id, contact_info_id, platform, url, username, icon, sort_order, visible, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sp.ID, sp.ContactInfoID, sp.Platform, sp.URL, sp.Username, sp.Icon, sp.Order, boolInt(sp.Visible),
			formatTime(sp.CreatedAt), formatTime(sp.UpdatedAt)); err != nil {
			return fmt.Errorf("insert social profile %s: %w", sp.ID, err)
		}
	}

	for _, c := range s.SkillCategories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skill_categories (id, name, slug, description, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Slug, c.Description, c.Order, formatTime(c.CreatedAt), formatTime(c.UpdatedAt)); err != nil {
			return fmt.Errorf("insert skill category %s: %w", c.ID, err)
		}
	}

	for _, sk := range s.Skills {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skills (id, name, category_id, proficiency, years_of_experience, icon, featured, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sk.ID, sk.Name, sk.CategoryID, sk.Proficiency, sk.YearsOfExperience, sk.Icon, boolInt(sk.Featured),
			formatTime(sk.CreatedAt), formatTime(sk.UpdatedAt)); err != nil {
			return fmt.Errorf("insert skill %s: %w", sk.ID, err)
		}
	}

	for _, p := range s.Projects {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, title, slug, summary, description, status, repo_url, demo_url, image_url,
			                      featured, start_date, end_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Slug, p.Summary, p.Description, string(p.Status), p.RepoURL, p.DemoURL, p.ImageURL,
			boolInt(p.Featured), formatTimePtr(p.StartDate), formatTimePtr(p.EndDate),
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}
	// Join rows go in after every project exists so related ids resolve.
	for _, p := range s.Projects {
		for i, skillID := range p.SkillIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO project_skills (project_id, skill_id, position) VALUES (?, ?, ?)`,
				p.ID, skillID, i); err != nil {
				return fmt.Errorf("link project %s to skill %s: %w", p.ID, skillID, err)
			}
		}
		for i, relatedID := range p.RelatedProjectIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO related_projects (project_id, related_id, position) VALUES (?, ?, ?)`,
				p.ID, relatedID, i); err != nil {
				return fmt.Errorf("link project %s to %s: %w", p.ID, relatedID, err)
			}
		}
	}

	for _, e := range s.Experiences {
		highlights, err := jsonText(e.Highlights)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO experiences (id, contact_info_id, company, role, employment_type, location, start_date, end_date,
			                         current, highlights, logo_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ContactInfoID, e.Company, e.Role, string(e.EmploymentType), e.Location,
			formatTime(e.StartDate), formatTimePtr(e.EndDate), boolInt(e.Current), highlights, e.LogoURL,
			formatTime(e.CreatedAt), formatTime(e.UpdatedAt)); err != nil {
			return fmt.Errorf("insert experience %s: %w", e.ID, err)
		}
	}

	for _, c := range s.Certifications {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO certifications (id, contact_info_id, name, issuer, issued_at, expires_at, credential_id,
			                            credential_url, logo_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.ContactInfoID, c.Name, c.Issuer, formatTime(c.IssuedAt), formatTimePtr(c.ExpiresAt),
			c.CredentialID, c.CredentialURL, c.LogoURL, formatTime(c.CreatedAt), formatTime(c.UpdatedAt)); err != nil {
			return fmt.Errorf("insert certification %s: %w", c.ID, err)
		}
	}

	for _, p := range s.BlogPosts {
		tags, err := jsonText(p.Tags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blog_posts (id, title, slug, excerpt, body, status, tags, published_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Slug, p.Excerpt, p.Body, string(p.Status), tags, formatTimePtr(p.PublishedAt),
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("insert blog post %s: %w", p.ID, err)
		}
	}
	return nil
}

// jsonText encodes a list or map column. Nil slices become "[]".
func jsonText(v any) (string, error) {
	if s, ok := v.([]string); ok && s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(b), nil
}
