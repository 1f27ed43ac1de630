package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

const storiesPrompt = `You are a business analyst. Read the attached document and extract the user stories it describes.

Return a JSON array. Each element must have these string fields: "featureName", "description", "role", "goal", "benefit", "module", and "acceptanceCriteria", an array of 3-6 testable acceptance criteria.
"module" is a short functional area name such as "Authentication" or "Analytics".
Return only the JSON array.`

// Document is an uploaded file to derive stories from.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// GeneratedStory is a user story proposed by the model, not yet saved.
type GeneratedStory struct {
	ID                 string   `json:"id"`
	FeatureName        string   `json:"featureName"`
	Description        string   `json:"description"`
	Role               string   `json:"role"`
	Goal               string   `json:"goal"`
	Benefit            string   `json:"benefit"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Module             string   `json:"module"`
}

// TemplateInput converts the story into template form fields.
func (s GeneratedStory) TemplateInput() domain.TemplateInput {
	return domain.TemplateInput{
		FeatureName:        s.FeatureName,
		Description:        s.Description,
		Role:               s.Role,
		Goal:               s.Goal,
		Benefit:            s.Benefit,
		AcceptanceCriteria: domain.NormalizeCriteria(s.AcceptanceCriteria),
		Module:             s.Module,
	}
}

// GenerateStories proposes user stories for the content of doc.
func (g *Generator) GenerateStories(ctx context.Context, doc Document) ([]GeneratedStory, error) {
	if !g.Configured() {
		return nil, ErrMissingAPIKey
	}
	if len(doc.Data) == 0 {
		return nil, validation.New("Please upload at least one document")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(storiesPrompt),
			genai.NewPartFromBytes(doc.Data, doc.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	text, err := g.generate(ctx, "stories", contents, config)
	if err != nil {
		return nil, fmt.Errorf("error generating user stories from %s: %w", doc.Name, err)
	}
	return ParseStories(text)
}

// ParseStories decodes the model's JSON answer. Stories without a feature
// name are dropped and every story gets a fresh id.
func ParseStories(text string) ([]GeneratedStory, error) {
	text = stripCodeFence(text)

	var raw []GeneratedStory
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode generated stories: %w", err)
	}

	out := make([]GeneratedStory, 0, len(raw))
	for _, s := range raw {
		s.FeatureName = strings.TrimSpace(s.FeatureName)
		if s.FeatureName == "" {
			continue
		}
		s.ID = uuid.NewString()
		s.Description = strings.TrimSpace(s.Description)
		s.Role = strings.TrimSpace(s.Role)
		s.Goal = strings.TrimSpace(s.Goal)
		s.Benefit = strings.TrimSpace(s.Benefit)
		s.Module = strings.TrimSpace(s.Module)
		s.AcceptanceCriteria = domain.NormalizeCriteria(s.AcceptanceCriteria)
		out = append(out, s)
	}
	return out, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
