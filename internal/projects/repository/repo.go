package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/store"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	store store.Store
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(s store.Store) *ProjectRepository {
	return &ProjectRepository{store: s}
}

type projectRecord struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Stories     []domain.ProjectStory `json:"stories"`
}

// Create inserts a new project and returns it as stored.
func (r *ProjectRepository) Create(ctx context.Context, name, description string, stories []domain.ProjectStory) (*domain.Project, error) {
	if stories == nil {
		stories = []domain.ProjectStory{}
	}
	data, err := json.Marshal(projectRecord{Name: name, Description: description, Stories: stories})
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}

	id, err := r.store.Create(ctx, store.CollectionProjects, data)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return r.Get(ctx, id)
}

// List returns all projects, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	docs, err := r.store.List(ctx, store.CollectionProjects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]domain.Project, 0, len(docs))
	for _, d := range docs {
		p, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	d, err := r.store.Get(ctx, store.CollectionProjects, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return decode(*d)
}

// Rename updates the project's name and description.
func (r *ProjectRepository) Rename(ctx context.Context, id, name, description string) (*domain.Project, error) {
	return r.update(ctx, id, map[string]any{"name": name, "description": description})
}

// SaveStories replaces the project's story list.
func (r *ProjectRepository) SaveStories(ctx context.Context, id string, stories []domain.ProjectStory) (*domain.Project, error) {
	if stories == nil {
		stories = []domain.ProjectStory{}
	}
	return r.update(ctx, id, map[string]any{"stories": stories})
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.CollectionProjects, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func (r *ProjectRepository) update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode project patch: %w", err)
	}
	if err := r.store.Update(ctx, store.CollectionProjects, id, data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func decode(d store.Document) (*domain.Project, error) {
	var rec projectRecord
	if err := d.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", d.ID, err)
	}
	stories := rec.Stories
	if stories == nil {
		stories = []domain.ProjectStory{}
	}
	for i := range stories {
		if stories[i].Tags == nil {
			stories[i].Tags = []string{}
		}
		if stories[i].AcceptanceCriteria == nil {
			stories[i].AcceptanceCriteria = []string{}
		}
	}
	return &domain.Project{
		ID:          d.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Stories:     stories,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
