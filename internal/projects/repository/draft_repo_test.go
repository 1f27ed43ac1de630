package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/selection"
)

func TestDraftRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := NewDraftRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	d := &Draft{
		UserID:    "u1",
		State:     selection.State{SelectedModules: []string{"Auth"}, SelectedTemplateIDs: []string{"1", "3"}},
		Catalogue: []selection.Member{{ID: "1", Module: "Auth"}, {ID: "3", Module: "Auth"}},
	}
	require.NoError(t, repo.Save(ctx, d))
	require.NotEmpty(t, d.ID)

	key := "usg:draft:u1:" + d.ID
	assert.True(t, mr.Exists(key))
	assert.Equal(t, DraftTTL, mr.TTL(key))

	got, err := repo.Get(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.State, got.State)
	assert.Equal(t, d.Catalogue, got.Catalogue)

	_, err = repo.Get(ctx, "someone-else", d.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	mr.FastForward(DraftTTL)
	_, err = repo.Get(ctx, "u1", d.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "u1", d.ID), domain.ErrDraftNotFound)
}
