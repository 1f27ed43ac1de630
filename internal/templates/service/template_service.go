package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/templates/filter"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

const copySuffix = " (Copy)"

// Repository is the template persistence used by TemplateService.
type Repository interface {
	List(ctx context.Context) ([]domain.Template, error)
	Get(ctx context.Context, id string) (*domain.Template, error)
	Create(ctx context.Context, in domain.TemplateInput) (*domain.Template, error)
	Update(ctx context.Context, id string, patch domain.TemplatePatch) (*domain.Template, error)
	Delete(ctx context.Context, id string) error
}

// Vocabulary records module names picked in the template form.
type Vocabulary interface {
	Add(ctx context.Context, name string) error
}

type TemplateService struct {
	repo  Repository
	vocab Vocabulary
}

func NewTemplateService(repo Repository, vocab Vocabulary) *TemplateService {
	return &TemplateService{repo: repo, vocab: vocab}
}

// Search loads every template and applies spec to them.
func (s *TemplateService) Search(ctx context.Context, spec domain.FilterSpec) ([]domain.Template, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all, spec), nil
}

// All returns the templates in store order (most recently updated first).
func (s *TemplateService) All(ctx context.Context) ([]domain.Template, error) {
	return s.repo.List(ctx)
}

// Modules lists the module tags in use by at least one template.
func (s *TemplateService) Modules(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.AvailableModules(all), nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	return s.repo.Get(ctx, id)
}

func (s *TemplateService) Create(ctx context.Context, in domain.TemplateInput) (*domain.Template, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.rememberModule(ctx, t.Module)
	return t, nil
}

// Update replaces the editable fields of template id with in.
func (s *TemplateService) Update(ctx context.Context, id string, in domain.TemplateInput) (*domain.Template, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Update(ctx, id, patchOf(in))
	if err != nil {
		return nil, err
	}
	s.rememberModule(ctx, t.Module)
	return t, nil
}

// Clone stores a copy of template id whose feature name ends in " (Copy)".
// Attachments stay with the source: their blobs live under the source's id.
func (s *TemplateService) Clone(ctx context.Context, id string) (*domain.Template, error) {
	src, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in := src.Input()
	in.FeatureName += copySuffix
	in.Attachments = nil
	return s.repo.Create(ctx, in)
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Import creates one template per selected story. Blank criteria are dropped
// and every story must pass the same checks as the template form.
func (s *TemplateService) Import(ctx context.Context, stories []domain.TemplateInput) ([]domain.Template, error) {
	if len(stories) == 0 {
		return nil, validation.New("select at least one user story")
	}

	inputs := make([]domain.TemplateInput, 0, len(stories))
	for i, st := range stories {
		in, err := normalize(st)
		if err != nil {
			return nil, validation.Errorf("story %d: %s", i+1, err.Error())
		}
		inputs = append(inputs, in)
	}

	out := make([]domain.Template, 0, len(inputs))
	for _, in := range inputs {
		t, err := s.repo.Create(ctx, in)
		if err != nil {
			return out, err
		}
		s.rememberModule(ctx, t.Module)
		out = append(out, *t)
	}
	return out, nil
}

// AddAttachments appends atts to the template's attachment list.
func (s *TemplateService) AddAttachments(ctx context.Context, id string, atts []domain.FileAttachment) (*domain.Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := append(append([]domain.FileAttachment(nil), t.Attachments...), atts...)
	return s.repo.Update(ctx, id, domain.TemplatePatch{Attachments: &merged})
}

// RemoveAttachment drops fileID from the template's attachment list.
func (s *TemplateService) RemoveAttachment(ctx context.Context, id, fileID string) (*domain.Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.FileAttachment, 0, len(t.Attachments))
	found := false
	for _, a := range t.Attachments {
		if a.ID == fileID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, domain.ErrAttachmentNotFound
	}
	return s.repo.Update(ctx, id, domain.TemplatePatch{Attachments: &kept})
}

func (s *TemplateService) rememberModule(ctx context.Context, module string) {
	if s.vocab == nil || module == "" {
		return
	}
	if err := s.vocab.Add(ctx, module); err != nil {
		logging.FromContext(ctx).Warn("add module to vocabulary", zap.String("module", module), zap.Error(err))
	}
}

func normalize(in domain.TemplateInput) (domain.TemplateInput, error) {
	in.FeatureName = strings.TrimSpace(in.FeatureName)
	in.Module = strings.TrimSpace(in.Module)
	in.Description = strings.TrimSpace(in.Description)
	in.Role = strings.TrimSpace(in.Role)
	in.Goal = strings.TrimSpace(in.Goal)
	in.Benefit = strings.TrimSpace(in.Benefit)
	in.AcceptanceCriteria = domain.NormalizeCriteria(in.AcceptanceCriteria)

	switch {
	case in.FeatureName == "":
		return in, validation.New("Feature name is required")
	case in.Module == "":
		return in, validation.New("Module is required")
	case in.Role == "" || in.Goal == "" || in.Benefit == "":
		return in, validation.New("Role, Goal, and Benefit are required for the user story")
	}
	return in, nil
}

func patchOf(in domain.TemplateInput) domain.TemplatePatch {
	attachments := in.Attachments
	if attachments == nil {
		attachments = []domain.FileAttachment{}
	}
	return domain.TemplatePatch{
		FeatureName:        &in.FeatureName,
		Description:        &in.Description,
		Role:               &in.Role,
		Goal:               &in.Goal,
		Benefit:            &in.Benefit,
		AcceptanceCriteria: &in.AcceptanceCriteria,
		Module:             &in.Module,
		Attachments:        &attachments,
	}
}
