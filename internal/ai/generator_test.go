package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/msgtobala/user-story-generator/internal/validation"
)

type fakeModels struct {
	text   string
	err    error
	calls  int
	model  string
	prompt []*genai.Content
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.prompt = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestParseCriteria(t *testing.T) {
	text := `Here are the acceptance criteria for the feature:
Acceptance Criteria:
1. The attorney can file a patent application from the matter record
2. Too short
- The system validates the filing deadline before submission
• Docketing entries are created automatically
* ok
   3) Trademark renewals trigger a reminder 90 days ahead

**Notes**`

	got := ParseCriteria(text)
	assert.Equal(t, []string{
		"The attorney can file a patent application from the matter record",
		"The system validates the filing deadline before submission",
		"Docketing entries are created automatically",
		") Trademark renewals trigger a reminder 90 days ahead",
	}, got)
}

func TestParseCriteria_Fallback(t *testing.T) {
	assert.Equal(t, []string{FallbackCriterion}, ParseCriteria("1. short\n\n- tiny"))
	assert.Equal(t, []string{FallbackCriterion}, ParseCriteria(""))
}

func TestParseCriteria_DropsHeadingCaseInsensitively(t *testing.T) {
	got := ParseCriteria("ACCEPTANCE CRITERIA: for the login page\nUsers see an error for bad passwords")
	assert.Equal(t, []string{"Users see an error for bad passwords"}, got)
}

func TestCriteriaPrompt(t *testing.T) {
	p := CriteriaPrompt(CriteriaRequest{Description: "File a trademark", Role: "paralegal"})

	assert.True(t, strings.HasPrefix(p, criteriaSystemPrompt))
	assert.Contains(t, p, "Feature: Not specified\nModule: Not specified\nDescription: File a trademark\n")
	assert.Contains(t, p, "\nUser Story Context:\n- Role: paralegal\n")
	assert.NotContains(t, p, "- Goal:")
	assert.True(t, strings.HasSuffix(p, "\n\nAcceptance Criteria:"))

	bare := CriteriaPrompt(CriteriaRequest{Description: "x", FeatureName: "Filing", Module: "IP"})
	assert.NotContains(t, bare, "User Story Context")
	assert.Contains(t, bare, "Feature: Filing\nModule: IP\n")
}

func TestGenerateAcceptanceCriteria(t *testing.T) {
	models := &fakeModels{text: "1. The user can submit the form with valid data\n2. Errors are shown inline next to each field"}
	g := NewGeneratorWith(models, Config{})

	got, err := g.GenerateAcceptanceCriteria(context.Background(), CriteriaRequest{Description: "Submit a form"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, DefaultModel, models.model)
	assert.Equal(t, 1, models.calls)
}

func TestGenerateAcceptanceCriteria_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewGeneratorWith(nil, Config{}).GenerateAcceptanceCriteria(ctx, CriteriaRequest{Description: "x"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	models := &fakeModels{}
	_, err = NewGeneratorWith(models, Config{}).GenerateAcceptanceCriteria(ctx, CriteriaRequest{Description: "  "})
	assert.True(t, validation.Is(err))
	assert.Zero(t, models.calls)

	upstream := errors.New("Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED")
	models = &fakeModels{err: upstream}
	_, err = NewGeneratorWith(models, Config{}).GenerateAcceptanceCriteria(ctx, CriteriaRequest{Description: "x"})
	require.ErrorIs(t, err, upstream)
	assert.Equal(t, "error generating acceptance criteria: Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED", err.Error())

	models = &fakeModels{text: ""}
	_, err = NewGeneratorWith(models, Config{}).GenerateAcceptanceCriteria(ctx, CriteriaRequest{Description: "x"})
	assert.ErrorContains(t, err, "empty response")
}

func TestGenerateAcceptanceCriteria_RespectsCancelledContext(t *testing.T) {
	models := &fakeModels{text: "The user can do something useful"}
	g := NewGeneratorWith(models, Config{RateLimit: 0.001, Burst: 1})

	_, err := g.GenerateAcceptanceCriteria(context.Background(), CriteriaRequest{Description: "x"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GenerateAcceptanceCriteria(ctx, CriteriaRequest{Description: "x"})
	assert.Error(t, err)
	assert.Equal(t, 1, models.calls)
}

func TestGenerateStories(t *testing.T) {
	models := &fakeModels{text: "```json\n" + `[
		{"featureName": " Patent search ", "description": "Search prior art", "role": "examiner", "goal": "find prior art", "benefit": "I can assess novelty", "module": "Patents", "acceptanceCriteria": ["Results are ranked by relevance", " "]},
		{"featureName": "", "description": "nameless"}
	]` + "\n```"}
	g := NewGeneratorWith(models, Config{Model: "gemini-test"})

	got, err := g.GenerateStories(context.Background(), Document{Name: "brief.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Patent search", got[0].FeatureName)
	assert.Equal(t, []string{"Results are ranked by relevance"}, got[0].AcceptanceCriteria)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "gemini-test", models.model)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)

	require.Len(t, models.prompt, 1)
	require.Len(t, models.prompt[0].Parts, 2)
	require.NotNil(t, models.prompt[0].Parts[1].InlineData)
	assert.Equal(t, "application/pdf", models.prompt[0].Parts[1].InlineData.MIMEType)

	in := got[0].TemplateInput()
	assert.Equal(t, "Patents", in.Module)
}

func TestGenerateStories_BadJSON(t *testing.T) {
	g := NewGeneratorWith(&fakeModels{text: "not json"}, Config{})
	_, err := g.GenerateStories(context.Background(), Document{Name: "a.txt", MIMEType: "text/plain", Data: []byte("a")})
	assert.ErrorContains(t, err, "decode generated stories")
}
