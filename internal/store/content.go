package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
)

var _ content.Source = (*Store)(nil)

func (s *Store) Projects(ctx context.Context) ([]content.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, summary, description, status, repo_url, demo_url,
		       image_url, featured, start_date, end_date, created_at, updated_at
		FROM projects
		ORDER BY featured DESC, COALESCE(start_date, created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var (
		out   []content.Project
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			p                content.Project
			featured         int
			start, end       sql.NullString
			created, updated string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.Status,
			&p.RepoURL, &p.DemoURL, &p.ImageURL, &featured, &start, &end, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Featured = featured == 1
		p.StartDate = parseTimePtr(start)
		p.EndDate = parseTimePtr(end)
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		p.SkillIDs = []string{}
		p.RelatedProjectIDs = []string{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.eachPair(ctx, `SELECT project_id, skill_id FROM project_skills ORDER BY project_id, position`,
		func(projectID, skillID string) {
			if i, ok := index[projectID]; ok {
				out[i].SkillIDs = append(out[i].SkillIDs, skillID)
			}
		}); err != nil {
		return nil, fmt.Errorf("query project skills: %w", err)
	}
	if err := s.eachPair(ctx, `SELECT project_id, related_id FROM related_projects ORDER BY project_id, position`,
		func(projectID, relatedID string) {
			if i, ok := index[projectID]; ok {
				out[i].RelatedProjectIDs = append(out[i].RelatedProjectIDs, relatedID)
			}
		}); err != nil {
		return nil, fmt.Errorf("query related projects: %w", err)
	}
	return out, nil
}

func (s *Store) eachPair(ctx context.Context, query string, fn func(a, b string)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return err
		}
		fn(a, b)
	}
	return rows.Err()
}

func (s *Store) Skills(ctx context.Context) ([]content.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category_id, proficiency, years_of_experience, icon, featured, created_at, updated_at
		FROM skills
		ORDER BY proficiency DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []content.Skill
	for rows.Next() {
		var (
			sk               content.Skill
			featured         int
			created, updated string
		)
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.CategoryID, &sk.Proficiency, &sk.YearsOfExperience,
			&sk.Icon, &featured, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		sk.Featured = featured == 1
		sk.CreatedAt = parseTime(created)
		sk.UpdatedAt = parseTime(updated)
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Store) SkillCategories(ctx context.Context) ([]content.SkillCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, description, sort_order, created_at, updated_at
		FROM skill_categories
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("query skill categories: %w", err)
	}
	defer rows.Close()

	var out []content.SkillCategory
	for rows.Next() {
		var (
			c                content.SkillCategory
			created, updated string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan skill category: %w", err)
		}
		c.CreatedAt = parseTime(created)
		c.UpdatedAt = parseTime(updated)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Experiences(ctx context.Context) ([]content.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_info_id, company, role, employment_type, location, start_date, end_date,
		       current, highlights, logo_url, created_at, updated_at
		FROM experiences
		ORDER BY current DESC, start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	var out []content.Experience
	for rows.Next() {
		var (
			e                       content.Experience
			start, created, updated string
			end                     sql.NullString
			current                 int
			highlights              string
		)
		if err := rows.Scan(&e.ID, &e.ContactInfoID, &e.Company, &e.Role, &e.EmploymentType, &e.Location,
			&start, &end, &current, &highlights, &e.LogoURL, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		if err := json.Unmarshal([]byte(highlights), &e.Highlights); err != nil {
			return nil, fmt.Errorf("decode highlights for %s: %w", e.ID, err)
		}
		e.StartDate = parseTime(start)
		e.EndDate = parseTimePtr(end)
		e.Current = current == 1
		e.CreatedAt = parseTime(created)
		e.UpdatedAt = parseTime(updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) BlogPosts(ctx context.Context) ([]content.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, excerpt, body, status, tags, published_at, created_at, updated_at
		FROM blog_posts
		ORDER BY COALESCE(published_at, created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query blog posts: %w", err)
	}
	defer rows.Close()

	var out []content.BlogPost
	for rows.Next() {
		var (
			p                      content.BlogPost
			tags, created, updated string
			published              sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Status, &tags,
			&published, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", p.ID, err)
		}
		p.PublishedAt = parseTimePtr(published)
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Metadata returns the site record with the owner's profile, social links
// and certifications. ErrNotFound means the site was never seeded.
func (s *Store) Metadata(ctx context.Context) (content.Metadata, error) {
	var (
		md                content.Metadata
		keywords, ownerID string
		updated           string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT site_name, site_url, description, keywords, og_image_path, owner_id, updated_at
		FROM site_metadata WHERE id = 1`,
	).Scan(&md.SiteName, &md.SiteURL, &md.Description, &keywords, &md.OGImagePath, &ownerID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return md, fmt.Errorf("site metadata: %w", ErrNotFound)
	}
	if err != nil {
		return md, fmt.Errorf("query site metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &md.Keywords); err != nil {
		return md, fmt.Errorf("decode keywords: %w", err)
	}
	md.UpdatedAt = parseTime(updated)

	if md.Owner, err = s.contactInfo(ctx, ownerID); err != nil {
		return md, err
	}
	if md.SocialProfiles, err = s.socialProfiles(ctx, ownerID); err != nil {
		return md, err
	}
	if md.Certifications, err = s.certifications(ctx, ownerID); err != nil {
		return md, err
	}
	return md, nil
}

func (s *Store) contactInfo(ctx context.Context, id string) (content.ContactInfo, error) {
	var (
		c                content.ContactInfo
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, title, email, phone, location, bio, avatar_url, resume_url, created_at, updated_at
		FROM contact_info WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Title, &c.Email, &c.Phone, &c.Location, &c.Bio, &c.AvatarURL, &c.ResumeURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("contact info %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("query contact info: %w", err)
	}
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return c, nil
}

func (s *Store) socialProfiles(ctx context.Context, ownerID string) ([]content.SocialProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_info_id, platform, url, username, icon, sort_order, visible, created_at, updated_at
		FROM social_profiles WHERE contact_info_id = ?
		ORDER BY sort_order, platform`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query social profiles: %w", err)
	}
	defer rows.Close()

	var out []content.SocialProfile
	for rows.Next() {
		var (
			sp               content.SocialProfile
			visible          int
			created, updated string
		)
		if err := rows.Scan(&sp.ID, &sp.ContactInfoID, &sp.Platform, &sp.URL, &sp.Username, &sp.Icon,
			&sp.Order, &visible, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan social profile: %w", err)
		}
		sp.Visible = visible == 1
		sp.CreatedAt = parseTime(created)
		sp.UpdatedAt = parseTime(updated)
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *Store) certifications(ctx context.Context, ownerID string) ([]content.Certification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_info_id, name, issuer, issued_at, expires_at, credential_id, credential_url,
		       logo_url, created_at, updated_at
		FROM certifications WHERE contact_info_id = ?
		ORDER BY issued_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query certifications: %w", err)
	}
	defer rows.Close()

	var out []content.Certification
	for rows.Next() {
		var (
			c                        content.Certification
			issued, created, updated string
			expires                  sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.ContactInfoID, &c.Name, &c.Issuer, &issued, &expires,
			&c.CredentialID, &c.CredentialURL, &c.LogoURL, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		c.IssuedAt = parseTime(issued)
		c.ExpiresAt = parseTimePtr(expires)
		c.CreatedAt = parseTime(created)
		c.UpdatedAt = parseTime(updated)
		out = append(out, c)
	}
	return out, rows.Err()
}
