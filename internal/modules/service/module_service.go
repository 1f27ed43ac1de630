package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/templates/filter"
	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

// Repository is a module vocabulary backend.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
}

// TemplateLister supplies the templates whose module tags Sync reconciles.
type TemplateLister interface {
	List(ctx context.Context) ([]tdomain.Template, error)
}

type ModuleService struct {
	repo      Repository
	templates TemplateLister
}

func NewModuleService(repo Repository, templates TemplateLister) *ModuleService {
	return &ModuleService{repo: repo, templates: templates}
}

// List returns the vocabulary sorted and de-duplicated.
func (s *ModuleService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Add records name. Adding a known module is a no-op.
func (s *ModuleService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validation.New("Module name is required")
	}
	return s.repo.Add(ctx, name)
}

// Sync adds every module tag used by a template but missing from the
// vocabulary, and returns the names it added.
func (s *ModuleService) Sync(ctx context.Context) ([]string, error) {
	all, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	known, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(known))
	for _, m := range known {
		have[m] = true
	}

	var added []string
	for _, m := range filter.AvailableModules(all) {
		if have[m] {
			continue
		}
		if err := s.repo.Add(ctx, m); err != nil {
			return added, err
		}
		added = append(added, m)
	}

	logging.FromContext(ctx).Info("module vocabulary synced", zap.Strings("added", added))
	return added, nil
}
