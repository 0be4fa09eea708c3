package content

import (
	"sort"
	"time"
)

// ProjectSkills expands a project's skill references into join rows.
func ProjectSkills(p Project) []ProjectSkill {
	out := make([]ProjectSkill, 0, len(p.SkillIDs))
	for _, id := range p.SkillIDs {
		out = append(out, ProjectSkill{ProjectID: p.ID, SkillID: id})
	}
	return out
}

// SkillsForProject resolves p.SkillIDs against skills, keeping p's order.
// Unknown ids are skipped.
func SkillsForProject(p Project, skills []Skill) []Skill {
	byID := make(map[string]Skill, len(skills))
	for _, s := range skills {
		byID[s.ID] = s
	}
	out := make([]Skill, 0, len(p.SkillIDs))
	for _, id := range p.SkillIDs {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// RelatedProjects resolves the self-referencing relation. A project never
// lists itself.
func RelatedProjects(p Project, all []Project) []Project {
	byID := make(map[string]Project, len(all))
	for _, other := range all {
		byID[other.ID] = other
	}
	out := make([]Project, 0, len(p.RelatedProjectIDs))
	for _, id := range p.RelatedProjectIDs {
		if id == p.ID {
			continue
		}
		if other, ok := byID[id]; ok {
			out = append(out, other)
		}
	}
	return out
}

type SkillGroup struct {
	Category SkillCategory
	Skills   []Skill
}

// GroupSkills buckets skills under their categories in category order,
// strongest skill first. Categories without skills are dropped.
func GroupSkills(skills []Skill, categories []SkillCategory) []SkillGroup {
	cats := append([]SkillCategory(nil), categories...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })

	byCat := make(map[string][]Skill)
	for _, s := range skills {
		byCat[s.CategoryID] = append(byCat[s.CategoryID], s)
	}
	groups := make([]SkillGroup, 0, len(cats))
	for _, c := range cats {
		members := byCat[c.ID]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool { return members[i].Proficiency > members[j].Proficiency })
		groups = append(groups, SkillGroup{Category: c, Skills: members})
	}
	return groups
}

// SortExperiences orders current roles first, then by start date, newest
// first.
func SortExperiences(in []Experience) []Experience {
	out := append([]Experience(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

func FeaturedProjects(in []Project) []Project {
	var out []Project
	for _, p := range in {
		if p.Featured && p.Status != ProjectArchived {
			out = append(out, p)
		}
	}
	return out
}

// PublishedPosts returns published posts, newest first.
func PublishedPosts(in []BlogPost) []BlogPost {
	var out []BlogPost
	for _, p := range in {
		if p.Status == PostPublished {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return publishedAt(out[i]).After(publishedAt(out[j]))
	})
	return out
}

func publishedAt(p BlogPost) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// ActiveCertifications drops certifications that expired before now.
func ActiveCertifications(in []Certification, now time.Time) []Certification {
	var out []Certification
	for _, c := range in {
		if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}
