package service

import (
	"github.com/google/uuid"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

// Assemble copies the selected templates into new draft stories, in the
// order of selectedIDs. Ids that match no template are skipped.
func Assemble(templates []tdomain.Template, selectedIDs []string) ([]domain.ProjectStory, error) {
	if len(selectedIDs) == 0 {
		return nil, validation.New("Select at least one template")
	}

	byID := make(map[string]tdomain.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	stories := make([]domain.ProjectStory, 0, len(selectedIDs))
	seen := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		t, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		stories = append(stories, storyFrom(t.Clone()))
	}
	if len(stories) == 0 {
		return nil, validation.New("None of the selected templates exist anymore")
	}
	return stories, nil
}

func storyFrom(t tdomain.Template) domain.ProjectStory {
	criteria := t.AcceptanceCriteria
	if criteria == nil {
		criteria = []string{}
	}
	return domain.ProjectStory{
		ID:                 uuid.NewString(),
		TemplateID:         t.ID,
		FeatureName:        t.FeatureName,
		Description:        t.Description,
		Role:               t.Role,
		Goal:               t.Goal,
		Benefit:            t.Benefit,
		AcceptanceCriteria: criteria,
		Tags:               []string{},
		Module:             t.Module,
		Customizations:     "",
		Status:             domain.StatusDraft,
		Attachments:        t.Attachments,
	}
}
