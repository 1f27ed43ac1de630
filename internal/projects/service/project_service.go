package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/metrics"
	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

// Repository is the project persistence used by ProjectService.
type Repository interface {
	Create(ctx context.Context, name, description string, stories []domain.ProjectStory) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Rename(ctx context.Context, id, name, description string) (*domain.Project, error)
	SaveStories(ctx context.Context, id string, stories []domain.ProjectStory) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// TemplateSource loads the template catalogue.
type TemplateSource interface {
	All(ctx context.Context) ([]tdomain.Template, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo      Repository
	templates TemplateSource
}

// NewProjectService creates a new project service
func NewProjectService(repo Repository, templates TemplateSource) *ProjectService {
	return &ProjectService{repo: repo, templates: templates}
}

// CreateFromSelection assembles a project from the selected templates and
// stores it. Input is validated before anything is loaded or written.
func (s *ProjectService) CreateFromSelection(ctx context.Context, name, description string, selectedIDs []string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.New("Project name is required")
	}
	if len(selectedIDs) == 0 {
		return nil, validation.New("Select at least one template")
	}

	all, err := s.templates.All(ctx)
	if err != nil {
		return nil, err
	}
	stories, err := Assemble(all, selectedIDs)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, name, strings.TrimSpace(description), stories)
	if err != nil {
		return nil, err
	}
	metrics.ProjectsCreated.Inc()
	logging.FromContext(ctx).Info("project created",
		zap.String("project_id", p.ID), zap.Int("stories", len(p.Stories)))
	return p, nil
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

// Rename updates a project's name and description
func (s *ProjectService) Rename(ctx context.Context, id, name, description string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.New("Project name is required")
	}
	return s.repo.Rename(ctx, id, name, strings.TrimSpace(description))
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStoryField sets one field of one story. value is the JSON encoding of
// the new value: a string, or an array of strings for tags and
// acceptanceCriteria.
func (s *ProjectService) UpdateStoryField(ctx context.Context, projectID, storyID string, field domain.StoryField, value json.RawMessage) (*domain.Project, error) {
	if !field.Valid() {
		return nil, validation.Errorf("unknown story field %q", field)
	}

	var (
		str  string
		list []string
	)
	if field.IsList() {
		if err := json.Unmarshal(value, &list); err != nil {
			return nil, validation.Errorf("%s must be a list of strings", field)
		}
		list = tdomain.NormalizeCriteria(list)
	} else {
		if err := json.Unmarshal(value, &str); err != nil {
			return nil, validation.Errorf("%s must be a string", field)
		}
		if field == domain.FieldStatus && !domain.StoryStatus(str).Valid() {
			return nil, validation.Errorf("unknown status %q", str)
		}
	}

	return s.editStory(ctx, projectID, storyID, func(st *domain.ProjectStory) {
		switch field {
		case domain.FieldFeatureName:
			st.FeatureName = str
		case domain.FieldDescription:
			st.Description = str
		case domain.FieldRole:
			st.Role = str
		case domain.FieldGoal:
			st.Goal = str
		case domain.FieldBenefit:
			st.Benefit = str
		case domain.FieldModule:
			st.Module = str
		case domain.FieldCustomizations:
			st.Customizations = str
		case domain.FieldStatus:
			st.Status = domain.StoryStatus(str)
		case domain.FieldTags:
			st.Tags = list
		case domain.FieldAcceptanceCriteria:
			st.AcceptanceCriteria = list
		}
	})
}

// ReplaceStory saves an edited story over the stored one. The id and the
// template reference cannot change.
func (s *ProjectService) ReplaceStory(ctx context.Context, projectID string, story domain.ProjectStory) (*domain.Project, error) {
	if story.Status == "" {
		story.Status = domain.StatusDraft
	}
	if !story.Status.Valid() {
		return nil, validation.Errorf("unknown status %q", story.Status)
	}
	story.AcceptanceCriteria = tdomain.NormalizeCriteria(story.AcceptanceCriteria)
	story.Tags = tdomain.NormalizeCriteria(story.Tags)

	return s.editStory(ctx, projectID, story.ID, func(st *domain.ProjectStory) {
		templateID := st.TemplateID
		*st = story.Clone()
		st.TemplateID = templateID
	})
}

func (s *ProjectService) editStory(ctx context.Context, projectID, storyID string, edit func(*domain.ProjectStory)) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stories := make([]domain.ProjectStory, len(p.Stories))
	found := false
	for i, st := range p.Stories {
		stories[i] = st.Clone()
		if st.ID == storyID {
			edit(&stories[i])
			found = true
		}
	}
	if !found {
		return nil, domain.ErrStoryNotFound
	}
	return s.repo.SaveStories(ctx, projectID, stories)
}
