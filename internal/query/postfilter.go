package query

import (
	"sort"
	"strings"

	"munifund/internal/model"
)

// PostFilter narrows an already-fetched page by case-insensitive substring
// match on reference ID or title. Used for the screens whose backend
// endpoint lacks a search parameter; acceptable as a linear scan because
// pages are capped at the page size. A blank query returns the input
// unchanged.
func PostFilter(projects []model.Project, q string) []model.Project {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return projects
	}

	matched := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.ReferenceID), q) ||
			strings.Contains(strings.ToLower(p.Title), q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// FilterByCategory keeps entries whose category is in the given set. Like
// PostFilter it exists for screens whose endpoint cannot filter server-side;
// an empty set keeps everything.
func FilterByCategory(projects []model.Project, categories []string) []model.Project {
	if len(categories) == 0 {
		return projects
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[strings.ToLower(c)] = struct{}{}
	}

	matched := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if _, ok := allowed[strings.ToLower(p.Category)]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}

// Sort keys accepted by SortProjects.
const (
	SortByTitle     = "title"
	SortByFunding   = "funding"
	SortByCommitted = "committed"
	SortByProgress  = "progress"
)

// SortProjects orders a fetched page in place for display. Unknown keys
// leave the backend's order untouched.
func SortProjects(projects []model.Project, key string) {
	switch key {
	case SortByTitle:
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Title) < strings.ToLower(projects[j].Title)
		})
	case SortByFunding:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].FundingRequirement > projects[j].FundingRequirement
		})
	case SortByCommitted:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].CommittedAmount > projects[j].CommittedAmount
		})
	case SortByProgress:
		sort.SliceStable(projects, func(i, j int) bool {
			pi := ratio(projects[i])
			pj := ratio(projects[j])
			return pi > pj
		})
	}
}

func ratio(p model.Project) float64 {
	if p.CommitmentGap <= 0 {
		return 0
	}
	return float64(p.CommittedAmount) / float64(p.CommitmentGap)
}
