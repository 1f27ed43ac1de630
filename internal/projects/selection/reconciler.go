// Package selection tracks which templates a project draft will include.
//
// Selecting a module pulls in all of its templates. Deselecting a module
// drops all of its templates, including ones that were picked one by one.
// Individual templates can be toggled independently of their module; a
// template deselected that way only comes back when its module is toggled
// off and on again.
package selection

import (
	"strings"

	"github.com/msgtobala/user-story-generator/internal/templates/domain"
)

// Member is the part of a template the reconciler needs.
type Member struct {
	ID          string `json:"id"`
	Module      string `json:"module"`
	FeatureName string `json:"featureName"`
	Description string `json:"description"`
}

// MemberOf extracts the reconciler's view of a template.
func MemberOf(t domain.Template) Member {
	return Member{ID: t.ID, Module: t.Module, FeatureName: t.FeatureName, Description: t.Description}
}

// Members converts a template catalogue, keeping its order.
func Members(ts []domain.Template) []Member {
	out := make([]Member, 0, len(ts))
	for _, t := range ts {
		out = append(out, MemberOf(t))
	}
	return out
}

// State is the serializable selection. Both lists are ordered sets in
// insertion order.
type State struct {
	SelectedModules     []string `json:"selectedModules"`
	SelectedTemplateIDs []string `json:"selectedTemplateIds"`
	SearchTerm          string   `json:"searchTerm"`
}

// Reconciler applies selection events to a State over a template catalogue.
// It is not safe for concurrent use.
type Reconciler struct {
	catalogue []Member
	known     map[string]Member
	modules   *orderedSet
	templates *orderedSet
	search    string
}

// New restores a reconciler from state against the catalogue the state was
// built on. Ids missing from catalogue are dropped; module selections are not
// re-applied, so templates deselected one by one stay deselected.
func New(catalogue []Member, state State) *Reconciler {
	r := &Reconciler{
		modules:   newOrderedSet(state.SelectedModules...),
		templates: newOrderedSet(state.SelectedTemplateIDs...),
		search:    state.SearchTerm,
	}
	r.replaceCatalogue(catalogue)
	return r
}

// Catalogue returns the templates the reconciler currently knows.
func (r *Reconciler) Catalogue() []Member {
	return append([]Member(nil), r.catalogue...)
}

// State returns a copy of the current selection.
func (r *Reconciler) State() State {
	return State{
		SelectedModules:     r.modules.items(),
		SelectedTemplateIDs: r.templates.items(),
		SearchTerm:          r.search,
	}
}

// SetCatalogue replaces the known templates. Selected ids that vanished are
// pruned, and templates new to the catalogue are selected when their module
// is.
func (r *Reconciler) SetCatalogue(catalogue []Member) {
	previous := r.known
	r.replaceCatalogue(catalogue)
	for _, m := range r.catalogue {
		if _, seen := previous[m.ID]; !seen && r.modules.has(m.Module) {
			r.templates.add(m.ID)
		}
	}
}

func (r *Reconciler) replaceCatalogue(catalogue []Member) {
	r.catalogue = append([]Member(nil), catalogue...)
	r.known = make(map[string]Member, len(catalogue))
	for _, m := range catalogue {
		r.known[m.ID] = m
	}
	r.templates.retain(func(id string) bool {
		_, ok := r.known[id]
		return ok
	})
}

// ToggleModule selects or deselects module. Deselecting also drops every
// template of that module. A module no template carries is never selected.
func (r *Reconciler) ToggleModule(module string) {
	if r.modules.has(module) {
		r.modules.remove(module)
		r.templates.retain(func(id string) bool {
			return r.known[id].Module != module
		})
		return
	}
	if !r.carries(module) {
		return
	}
	r.modules.add(module)
	r.pullModule(module)
}

func (r *Reconciler) carries(module string) bool {
	for _, m := range r.catalogue {
		if m.Module == module {
			return true
		}
	}
	return false
}

// ToggleTemplate flips one template. Unknown ids are ignored.
func (r *Reconciler) ToggleTemplate(id string) {
	if _, ok := r.known[id]; !ok {
		return
	}
	if r.templates.has(id) {
		r.templates.remove(id)
	} else {
		r.templates.add(id)
	}
}

func (r *Reconciler) SetSearchTerm(term string) {
	r.search = term
}

// ClearAll empties the modules, the templates and the search term.
func (r *Reconciler) ClearAll() {
	r.modules = newOrderedSet()
	r.templates = newOrderedSet()
	r.search = ""
}

// pullModule selects every template of module in catalogue order. It never
// removes anything.
func (r *Reconciler) pullModule(module string) {
	for _, m := range r.catalogue {
		if m.Module == module {
			r.templates.add(m.ID)
		}
	}
}

// Visible lists the catalogue entries the draft currently shows: members of
// the selected modules (all when none are selected) whose feature name,
// module or description contains the search term.
func (r *Reconciler) Visible() []Member {
	term := strings.ToLower(r.search)
	out := make([]Member, 0, len(r.catalogue))
	for _, m := range r.catalogue {
		if r.modules.len() > 0 && !r.modules.has(m.Module) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(m.FeatureName), term) &&
			!strings.Contains(strings.ToLower(m.Module), term) &&
			!strings.Contains(strings.ToLower(m.Description), term) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// IsSelected reports whether template id is selected.
func (r *Reconciler) IsSelected(id string) bool {
	return r.templates.has(id)
}
