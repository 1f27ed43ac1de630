package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/repository"
	"github.com/msgtobala/user-story-generator/internal/projects/selection"
)

// DraftStore persists drafts per user.
type DraftStore interface {
	Save(ctx context.Context, d *repository.Draft) error
	Get(ctx context.Context, userID, id string) (*repository.Draft, error)
	Delete(ctx context.Context, userID, id string) error
}

// DraftView is what a client renders for a draft.
type DraftView struct {
	ID               string             `json:"id"`
	State            selection.State    `json:"state"`
	Visible          []selection.Member `json:"visible"`
	AvailableModules []string           `json:"availableModules"`
	SelectedCount    int                `json:"selectedCount"`
}

// DraftService drives the project creation flow: a selection is built up
// event by event and committed as a project.
type DraftService struct {
	drafts    DraftStore
	templates TemplateSource
	projects  *ProjectService
}

func NewDraftService(drafts DraftStore, templates TemplateSource, projects *ProjectService) *DraftService {
	return &DraftService{drafts: drafts, templates: templates, projects: projects}
}

// New starts an empty draft for userID.
func (s *DraftService) New(ctx context.Context, userID string) (*DraftView, error) {
	all, err := s.templates.All(ctx)
	if err != nil {
		return nil, err
	}
	catalogue := selection.Members(all)
	r := selection.New(catalogue, selection.State{})

	d := &repository.Draft{UserID: userID}
	return s.save(ctx, d, r)
}

// Get reconciles the draft against the current templates and returns it.
func (s *DraftService) Get(ctx context.Context, userID, id string) (*DraftView, error) {
	return s.apply(ctx, userID, id, func(*selection.Reconciler) {})
}

func (s *DraftService) ToggleModule(ctx context.Context, userID, id, module string) (*DraftView, error) {
	return s.apply(ctx, userID, id, func(r *selection.Reconciler) { r.ToggleModule(module) })
}

func (s *DraftService) ToggleTemplate(ctx context.Context, userID, id, templateID string) (*DraftView, error) {
	return s.apply(ctx, userID, id, func(r *selection.Reconciler) { r.ToggleTemplate(templateID) })
}

func (s *DraftService) SetSearch(ctx context.Context, userID, id, term string) (*DraftView, error) {
	return s.apply(ctx, userID, id, func(r *selection.Reconciler) { r.SetSearchTerm(term) })
}

// Clear drops every selection and the search term.
func (s *DraftService) Clear(ctx context.Context, userID, id string) (*DraftView, error) {
	return s.apply(ctx, userID, id, func(r *selection.Reconciler) { r.ClearAll() })
}

// Commit creates a project from the draft's selected templates and removes
// the draft. A failed create leaves the draft untouched.
func (s *DraftService) Commit(ctx context.Context, userID, id, name, description string) (*domain.Project, error) {
	d, err := s.drafts.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.CreateFromSelection(ctx, name, description, d.State.SelectedTemplateIDs)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, userID, id); err != nil {
		logging.FromContext(ctx).Warn("failed to delete committed draft",
			zap.String("draft_id", id), zap.Error(err))
	}
	return p, nil
}

// Cancel discards the draft.
func (s *DraftService) Cancel(ctx context.Context, userID, id string) error {
	return s.drafts.Delete(ctx, userID, id)
}

func (s *DraftService) apply(ctx context.Context, userID, id string, event func(*selection.Reconciler)) (*DraftView, error) {
	d, err := s.drafts.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	all, err := s.templates.All(ctx)
	if err != nil {
		return nil, err
	}

	r := selection.New(d.Catalogue, d.State)
	r.SetCatalogue(selection.Members(all))
	event(r)
	return s.save(ctx, d, r)
}

func (s *DraftService) save(ctx context.Context, d *repository.Draft, r *selection.Reconciler) (*DraftView, error) {
	d.State = r.State()
	d.Catalogue = r.Catalogue()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return view(d.ID, r), nil
}

func view(id string, r *selection.Reconciler) *DraftView {
	state := r.State()
	catalogue := r.Catalogue()

	seen := make(map[string]bool)
	modules := make([]string, 0)
	for _, m := range catalogue {
		if m.Module != "" && !seen[m.Module] {
			seen[m.Module] = true
			modules = append(modules, m.Module)
		}
	}

	sort.Strings(modules)

	return &DraftView{
		ID:               id,
		State:            state,
		Visible:          r.Visible(),
		AvailableModules: modules,
		SelectedCount:    len(state.SelectedTemplateIDs),
	}
}
