package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/repository"
	"github.com/msgtobala/user-story-generator/internal/store/memory"
	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

type staticTemplates struct {
	items []tdomain.Template
	calls int
}

func (s *staticTemplates) All(context.Context) ([]tdomain.Template, error) {
	s.calls++
	return s.items, nil
}

func catalogue() []tdomain.Template {
	return []tdomain.Template{
		{ID: "1", FeatureName: "Login", Module: "Auth", Role: "user", Goal: "sign in", Benefit: "access",
			AcceptanceCriteria: []string{"works"},
			Attachments:        []tdomain.FileAttachment{{ID: "f1", Name: "flow.png", Size: 10}}},
		{ID: "2", FeatureName: "Invoice list", Module: "Billing"},
		{ID: "3", FeatureName: "Logout", Module: "Auth"},
	}
}

func newProjectService() (*ProjectService, *staticTemplates) {
	templates := &staticTemplates{items: catalogue()}
	return NewProjectService(repository.NewProjectRepository(memory.New()), templates), templates
}

func TestAssemble(t *testing.T) {
	templates := catalogue()

	stories, err := Assemble(templates, []string{"3", "missing", "1"})
	require.NoError(t, err)
	require.Len(t, stories, 2)

	assert.Equal(t, "3", stories[0].TemplateID)
	assert.Equal(t, "1", stories[1].TemplateID)
	assert.NotEqual(t, stories[0].ID, stories[1].ID)
	for _, st := range stories {
		assert.Equal(t, domain.StatusDraft, st.Status)
		assert.Equal(t, []string{}, st.Tags)
		assert.Empty(t, st.Customizations)
	}

	// stories own their data
	stories[1].AcceptanceCriteria[0] = "changed"
	stories[1].Attachments[0].Name = "changed"
	assert.Equal(t, "works", templates[0].AcceptanceCriteria[0])
	assert.Equal(t, "flow.png", templates[0].Attachments[0].Name)

	_, err = Assemble(templates, nil)
	assert.True(t, validation.Is(err))
}

func TestCreateFromSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("validates before loading templates", func(t *testing.T) {
		svc, templates := newProjectService()

		_, err := svc.CreateFromSelection(ctx, "  ", "", []string{"1"})
		assert.EqualError(t, err, "Project name is required")

		_, err = svc.CreateFromSelection(ctx, "Portal", "", nil)
		assert.True(t, validation.Is(err))

		assert.Zero(t, templates.calls)
		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("stores assembled stories", func(t *testing.T) {
		svc, _ := newProjectService()

		p, err := svc.CreateFromSelection(ctx, " Portal ", "desc", []string{"1", "3"})
		require.NoError(t, err)
		assert.Equal(t, "Portal", p.Name)
		require.Len(t, p.Stories, 2)
		assert.Equal(t, "Login", p.Stories[0].FeatureName)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Stories, got.Stories)
	})
}

func TestUpdateStoryField(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()
	p, err := svc.CreateFromSelection(ctx, "Portal", "", []string{"1", "2"})
	require.NoError(t, err)
	storyID := p.Stories[0].ID

	p, err = svc.UpdateStoryField(ctx, p.ID, storyID, domain.FieldStatus, json.RawMessage(`"review"`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, p.Stories[0].Status)
	assert.Equal(t, domain.StatusDraft, p.Stories[1].Status)

	p, err = svc.UpdateStoryField(ctx, p.ID, storyID, domain.FieldTags, json.RawMessage(`["mvp", " ", "web "]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"mvp", "web"}, p.Stories[0].Tags)

	p, err = svc.UpdateStoryField(ctx, p.ID, storyID, domain.FieldCustomizations, json.RawMessage(`"SSO only"`))
	require.NoError(t, err)
	assert.Equal(t, "SSO only", p.Stories[0].Customizations)

	_, err = svc.UpdateStoryField(ctx, p.ID, storyID, domain.FieldStatus, json.RawMessage(`"done"`))
	assert.True(t, validation.Is(err))

	_, err = svc.UpdateStoryField(ctx, p.ID, storyID, "priority", json.RawMessage(`"high"`))
	assert.True(t, validation.Is(err))

	_, err = svc.UpdateStoryField(ctx, p.ID, storyID, domain.FieldTags, json.RawMessage(`"mvp"`))
	assert.True(t, validation.Is(err))

	_, err = svc.UpdateStoryField(ctx, p.ID, "nope", domain.FieldGoal, json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, domain.ErrStoryNotFound)

	_, err = svc.UpdateStoryField(ctx, "nope", storyID, domain.FieldGoal, json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestReplaceStory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()
	p, err := svc.CreateFromSelection(ctx, "Portal", "", []string{"1"})
	require.NoError(t, err)

	edited := p.Stories[0].Clone()
	edited.TemplateID = "other"
	edited.Goal = "sign in with SSO"
	edited.Status = domain.StatusApproved

	p, err = svc.ReplaceStory(ctx, p.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, "sign in with SSO", p.Stories[0].Goal)
	assert.Equal(t, domain.StatusApproved, p.Stories[0].Status)
	assert.Equal(t, "1", p.Stories[0].TemplateID)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()
	p, err := svc.CreateFromSelection(ctx, "Portal", "", []string{"1"})
	require.NoError(t, err)

	_, err = svc.Rename(ctx, p.ID, "", "x")
	assert.EqualError(t, err, "Project name is required")

	p, err = svc.Rename(ctx, p.ID, "Partner portal ", " new ")
	require.NoError(t, err)
	assert.Equal(t, "Partner portal", p.Name)
	assert.Equal(t, "new", p.Description)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), domain.ErrProjectNotFound)
}
