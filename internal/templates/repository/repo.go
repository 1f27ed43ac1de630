package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/msgtobala/user-story-generator/internal/store"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
)

// TemplateRepository maps templates onto the "templates" collection.
type TemplateRepository struct {
	store store.Store
}

func NewTemplateRepository(s store.Store) *TemplateRepository {
	return &TemplateRepository{store: s}
}

// List returns every template, most recently updated first.
func (r *TemplateRepository) List(ctx context.Context) ([]domain.Template, error) {
	docs, err := r.store.List(ctx, store.CollectionTemplates)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	out := make([]domain.Template, 0, len(docs))
	for _, d := range docs {
		t, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *TemplateRepository) Get(ctx context.Context, id string) (*domain.Template, error) {
	d, err := r.store.Get(ctx, store.CollectionTemplates, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	return decode(*d)
}

// Create stores in and returns the template as persisted.
func (r *TemplateRepository) Create(ctx context.Context, in domain.TemplateInput) (*domain.Template, error) {
	if in.AcceptanceCriteria == nil {
		in.AcceptanceCriteria = []string{}
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}

	id, err := r.store.Create(ctx, store.CollectionTemplates, data)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return r.Get(ctx, id)
}

// Update merges the non-nil fields of patch into the template.
func (r *TemplateRepository) Update(ctx context.Context, id string, patch domain.TemplatePatch) (*domain.Template, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode template patch: %w", err)
	}

	if err := r.store.Update(ctx, store.CollectionTemplates, id, data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.CollectionTemplates, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

func decode(d store.Document) (*domain.Template, error) {
	var t domain.Template
	if err := d.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", d.ID, err)
	}
	t.ID = d.ID
	t.CreatedAt = d.CreatedAt
	t.UpdatedAt = d.UpdatedAt
	if t.AcceptanceCriteria == nil {
		t.AcceptanceCriteria = []string{}
	}
	return &t, nil
}
