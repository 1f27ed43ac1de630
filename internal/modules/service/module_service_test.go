package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgtobala/user-story-generator/internal/modules/repository"
	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

type stubTemplates struct {
	items []tdomain.Template
	err   error
}

func (s stubTemplates) List(context.Context) ([]tdomain.Template, error) {
	return s.items, s.err
}

func newService(t *testing.T, templates TemplateLister) *ModuleService {
	t.Helper()
	mr := miniredis.RunT(t)
	repo := repository.NewRedisRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewModuleService(repo, templates)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, stubTemplates{})

	err := svc.Add(ctx, "   ")
	assert.True(t, validation.Is(err))

	require.NoError(t, svc.Add(ctx, " Auth "))
	require.NoError(t, svc.Add(ctx, "Auth"))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auth"}, got)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, stubTemplates{items: []tdomain.Template{
		{ID: "1", Module: "Auth"},
		{ID: "2", Module: "Analytics"},
		{ID: "3", Module: "Auth"},
	}})
	require.NoError(t, svc.Add(ctx, "Auth"))

	added, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analytics"}, added)

	added, err = svc.Sync(ctx)
	require.NoError(t, err)
	assert.Empty(t, added)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analytics", "Auth"}, got)
}

func TestSync_TemplateError(t *testing.T) {
	boom := errors.New("store down")
	svc := newService(t, stubTemplates{err: boom})
	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, boom)
}
