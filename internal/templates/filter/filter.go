// Package filter narrows and orders template listings.
package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/msgtobala/user-story-generator/internal/templates/domain"
)

// Apply returns the templates of all that match spec, in spec.SortBy order.
// all is never modified; the result is a fresh, non-nil slice.
func Apply(all []domain.Template, spec domain.FilterSpec) []domain.Template {
	term := strings.ToLower(spec.SearchTerm)
	modules := make(map[string]struct{}, len(spec.SelectedModules))
	for _, m := range spec.SelectedModules {
		modules[m] = struct{}{}
	}

	out := make([]domain.Template, 0, len(all))
	for _, t := range all {
		if !matchesSearch(t, term) {
			continue
		}
		if len(modules) > 0 {
			if _, ok := modules[t.Module]; !ok {
				continue
			}
		}
		out = append(out, t.Clone())
	}

	sortTemplates(out, spec.SortBy)
	return out
}

// matchesSearch expects term already lower-cased.
func matchesSearch(t domain.Template, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.FeatureName), term) ||
		strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.Goal), term)
}

func sortTemplates(ts []domain.Template, by domain.SortBy) {
	switch by {
	case domain.SortNameAsc, domain.SortNameDesc:
		// collators keep scratch buffers, one per call
		c := collate.New(language.English)
		desc := by == domain.SortNameDesc
		sort.SliceStable(ts, func(i, j int) bool {
			if desc {
				return c.CompareString(ts[j].FeatureName, ts[i].FeatureName) < 0
			}
			return c.CompareString(ts[i].FeatureName, ts[j].FeatureName) < 0
		})
	case domain.SortDateNewest:
		sort.SliceStable(ts, func(i, j int) bool {
			return ts[i].UpdatedAt.After(ts[j].UpdatedAt)
		})
	case domain.SortDateOldest:
		sort.SliceStable(ts, func(i, j int) bool {
			return ts[i].UpdatedAt.Before(ts[j].UpdatedAt)
		})
	}
}

// AvailableModules lists the distinct non-empty module tags used by all, sorted.
func AvailableModules(all []domain.Template) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range all {
		if t.Module == "" {
			continue
		}
		if _, ok := seen[t.Module]; ok {
			continue
		}
		seen[t.Module] = struct{}{}
		out = append(out, t.Module)
	}
	sort.Strings(out)
	return out
}
