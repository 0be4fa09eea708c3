package view

import (
	"errors"
	"html/template"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
)

var errNoContent = errors.New("content not loaded")

type projectCard struct {
	content.Project
	Skills  []content.Skill
	Related []content.Project
}

func (r *Renderer) about(d PageData) (template.HTML, error) {
	md := d.Content.Metadata
	if md.Owner.Name == "" {
		return "", errNoContent
	}
	var visible []content.SocialProfile
	for _, sp := range md.SocialProfiles {
		if sp.Visible {
			visible = append(visible, sp)
		}
	}
	return r.fragment("section_about", map[string]any{
		"Owner":  md.Owner,
		"Social": visible,
		"Mode":   d.Mode,
	})
}

func (r *Renderer) experience(d PageData) (template.HTML, error) {
	return r.fragment("section_experience", content.SortExperiences(d.Content.Experiences))
}

func (r *Renderer) achievements(d PageData) (template.HTML, error) {
	return r.fragment("section_achievements", content.ActiveCertifications(d.Content.Metadata.Certifications, d.Now))
}

func (r *Renderer) projects(d PageData) (template.HTML, error) {
	all := d.Content.Projects
	var cards []projectCard
	for _, p := range content.FeaturedProjects(all) {
		cards = append(cards, projectCard{
			Project: p,
			Skills:  content.SkillsForProject(p, d.Content.Skills),
			Related: content.RelatedProjects(p, all),
		})
	}
	return r.fragment("section_projects", cards)
}

func (r *Renderer) skills(d PageData) (template.HTML, error) {
	return r.fragment("section_skills", content.GroupSkills(d.Content.Skills, d.Content.SkillCategories))
}

func (r *Renderer) blog(d PageData) (template.HTML, error) {
	return r.fragment("section_blog", content.PublishedPosts(d.Content.BlogPosts))
}

func (r *Renderer) footer(d PageData) (template.HTML, error) {
	return r.fragment("section_footer", map[string]any{
		"Owner":  d.Content.Metadata.Owner,
		"Social": d.Content.Metadata.SocialProfiles,
		"Year":   d.Now.Year(),
	})
}
