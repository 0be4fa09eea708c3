// Package content holds the portfolio's content records, their validation
// rules, and the cache that page rendering reads from.
package content

import "time"

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostArchived:
		return true
	}
	return false
}

type EmploymentType string

const (
	FullTime   EmploymentType = "full_time"
	PartTime   EmploymentType = "part_time"
	Contract   EmploymentType = "contract"
	Internship EmploymentType = "internship"
	Freelance  EmploymentType = "freelance"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case FullTime, PartTime, Contract, Internship, Freelance:
		return true
	}
	return false
}

type ContactInfo struct {
	ID        string    `json:"id" yaml:"id" validate:"required,max=64"`
	Name      string    `json:"name" yaml:"name" validate:"required,min=1,max=100"`
	Title     string    `json:"title" yaml:"title" validate:"max=150"`
	Email     string    `json:"email" yaml:"email" validate:"required,email"`
	Phone     string    `json:"phone,omitempty" yaml:"phone" validate:"max=32"`
	Location  string    `json:"location,omitempty" yaml:"location" validate:"max=100"`
	Bio       string    `json:"bio" yaml:"bio" validate:"max=2000"`
	AvatarURL string    `json:"avatar_url,omitempty" yaml:"avatar_url" validate:"omitempty,uri"`
	ResumeURL string    `json:"resume_url,omitempty" yaml:"resume_url" validate:"omitempty,uri"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

type SocialProfile struct {
	ID            string    `json:"id" yaml:"id" validate:"required,max=64"`
	ContactInfoID string    `json:"contact_info_id" yaml:"contact_info_id" validate:"required"`
	Platform      string    `json:"platform" yaml:"platform" validate:"required,max=50"`
	URL           string    `json:"url" yaml:"url" validate:"required,url"`
	Username      string    `json:"username,omitempty" yaml:"username" validate:"max=100"`
	Icon          string    `json:"icon,omitempty" yaml:"icon" validate:"max=50"`
	Order         int       `json:"order" yaml:"order" validate:"gte=0"`
	Visible       bool      `json:"visible" yaml:"visible"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

type SkillCategory struct {
	ID          string    `json:"id" yaml:"id" validate:"required,max=64"`
	Name        string    `json:"name" yaml:"name" validate:"required,max=80"`
	Slug        string    `json:"slug" yaml:"slug" validate:"required,max=80"`
	Description string    `json:"description,omitempty" yaml:"description" validate:"max=500"`
	Order       int       `json:"order" yaml:"order" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

type Skill struct {
	ID                string    `json:"id" yaml:"id" validate:"required,max=64"`
	Name              string    `json:"name" yaml:"name" validate:"required,max=80"`
	CategoryID        string    `json:"category_id" yaml:"category_id" validate:"required"`
	Proficiency       int       `json:"proficiency" yaml:"proficiency" validate:"gte=0,lte=100"`
	YearsOfExperience float64   `json:"years_of_experience" yaml:"years_of_experience" validate:"gte=0,lte=60"`
	Icon              string    `json:"icon,omitempty" yaml:"icon" validate:"max=50"`
	Featured          bool      `json:"featured" yaml:"featured"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"updated_at"`
}

type Project struct {
	ID                string        `json:"id" yaml:"id" validate:"required,max=64"`
	Title             string        `json:"title" yaml:"title" validate:"required,max=150"`
	Slug              string        `json:"slug" yaml:"slug" validate:"required,max=150"`
	Summary           string        `json:"summary" yaml:"summary" validate:"required,max=300"`
	Description       string        `json:"description" yaml:"description" validate:"max=5000"`
	Status            ProjectStatus `json:"status" yaml:"status" validate:"required,oneof=planning in_progress completed archived"`
	RepoURL           string        `json:"repo_url,omitempty" yaml:"repo_url" validate:"omitempty,url"`
	DemoURL           string        `json:"demo_url,omitempty" yaml:"demo_url" validate:"omitempty,url"`
	ImageURL          string        `json:"image_url,omitempty" yaml:"image_url" validate:"omitempty,uri"`
	Featured          bool          `json:"featured" yaml:"featured"`
	StartDate         *time.Time    `json:"start_date,omitempty" yaml:"start_date"`
	EndDate           *time.Time    `json:"end_date,omitempty" yaml:"end_date"`
	SkillIDs          []string      `json:"skill_ids" yaml:"skill_ids"`
	RelatedProjectIDs []string      `json:"related_project_ids" yaml:"related_project_ids"`
	CreatedAt         time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" yaml:"updated_at"`
}

// ProjectSkill is the join row between projects and skills.
type ProjectSkill struct {
	ProjectID string `json:"project_id"`
	SkillID   string `json:"skill_id"`
}

type Experience struct {
	ID             string         `json:"id" yaml:"id" validate:"required,max=64"`
	ContactInfoID  string         `json:"contact_info_id" yaml:"contact_info_id" validate:"required"`
	Company        string         `json:"company" yaml:"company" validate:"required,max=150"`
	Role           string         `json:"role" yaml:"role" validate:"required,max=150"`
	EmploymentType EmploymentType `json:"employment_type" yaml:"employment_type" validate:"required,oneof=full_time part_time contract internship freelance"`
	Location       string         `json:"location,omitempty" yaml:"location" validate:"max=100"`
	StartDate      time.Time      `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate        *time.Time     `json:"end_date,omitempty" yaml:"end_date"`
	Current        bool           `json:"current" yaml:"current"`
	Highlights     []string       `json:"highlights" yaml:"highlights" validate:"dive,max=500"`
	LogoURL        string         `json:"logo_url,omitempty" yaml:"logo_url" validate:"omitempty,uri"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" yaml:"updated_at"`
}

type Certification struct {
	ID            string     `json:"id" yaml:"id" validate:"required,max=64"`
	ContactInfoID string     `json:"contact_info_id" yaml:"contact_info_id" validate:"required"`
	Name          string     `json:"name" yaml:"name" validate:"required,max=150"`
	Issuer        string     `json:"issuer" yaml:"issuer" validate:"required,max=150"`
	IssuedAt      time.Time  `json:"issued_at" yaml:"issued_at" validate:"required"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" yaml:"expires_at"`
	CredentialID  string     `json:"credential_id,omitempty" yaml:"credential_id" validate:"max=100"`
	CredentialURL string     `json:"credential_url,omitempty" yaml:"credential_url" validate:"omitempty,url"`
	LogoURL       string     `json:"logo_url,omitempty" yaml:"logo_url" validate:"omitempty,uri"`
	CreatedAt     time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"updated_at"`
}

type BlogPost struct {
	ID          string     `json:"id" yaml:"id" validate:"required,max=64"`
	Title       string     `json:"title" yaml:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" yaml:"slug" validate:"required,max=200"`
	Excerpt     string     `json:"excerpt" yaml:"excerpt" validate:"max=500"`
	Body        string     `json:"body" yaml:"body"`
	Status      PostStatus `json:"status" yaml:"status" validate:"required,oneof=draft published archived"`
	Tags        []string   `json:"tags" yaml:"tags" validate:"dive,max=40"`
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// AnalyticsEvent is a tracked interaction as persisted.
type AnalyticsEvent struct {
	ID            string         `json:"id" validate:"required,uuid"`
	Name          string         `json:"name" validate:"required,max=64"`
	Category      string         `json:"category,omitempty" validate:"max=64"`
	Label         string         `json:"label,omitempty" validate:"max=200"`
	Value         float64        `json:"value,omitempty"`
	PageSessionID string         `json:"page_session_id,omitempty" validate:"omitempty,uuid"`
	Path          string         `json:"path,omitempty" validate:"max=500"`
	Properties    map[string]any `json:"properties,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at" validate:"required"`
}

// Metadata is the site-wide record: SEO fields plus the owner's profile,
// social links and certifications.
type Metadata struct {
	SiteName       string          `json:"site_name" yaml:"site_name" validate:"required,max=100"`
	SiteURL        string          `json:"site_url" yaml:"site_url" validate:"omitempty,url"`
	Description    string          `json:"description" yaml:"description" validate:"max=300"`
	Keywords       []string        `json:"keywords" yaml:"keywords"`
	OGImagePath    string          `json:"og_image_path,omitempty" yaml:"og_image_path"`
	Owner          ContactInfo     `json:"owner" yaml:"owner"`
	SocialProfiles []SocialProfile `json:"social_profiles" yaml:"social_profiles" validate:"dive"`
	Certifications []Certification `json:"certifications" yaml:"certifications" validate:"dive"`
	UpdatedAt      time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Collections is everything one cache load fetches.
type Collections struct {
	Projects        []Project       `json:"projects"`
	Skills          []Skill         `json:"skills"`
	Experiences     []Experience    `json:"experiences"`
	BlogPosts       []BlogPost      `json:"blog_posts"`
	SkillCategories []SkillCategory `json:"skill_categories"`
	Metadata        Metadata        `json:"metadata"`
}
