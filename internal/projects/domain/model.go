package domain

import (
	"time"

	tdomain "github.com/msgtobala/user-story-generator/internal/templates/domain"
)

// Project is a named collection of stories assembled from templates.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Stories     []ProjectStory `json:"stories"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProjectStory is a snapshot of a template taken when the project was
// assembled. Later edits to the story and to the template do not affect
// each other.
type ProjectStory struct {
	ID                 string                   `json:"id"`
	TemplateID         string                   `json:"templateId"`
	FeatureName        string                   `json:"featureName"`
	Description        string                   `json:"description"`
	Role               string                   `json:"role"`
	Goal               string                   `json:"goal"`
	Benefit            string                   `json:"benefit"`
	AcceptanceCriteria []string                 `json:"acceptanceCriteria"`
	Tags               []string                 `json:"tags"`
	Module             string                   `json:"module"`
	Customizations     string                   `json:"customizations"`
	Status             StoryStatus              `json:"status"`
	Attachments        []tdomain.FileAttachment `json:"attachments,omitempty"`
}

type StoryStatus string

const (
	StatusDraft    StoryStatus = "draft"
	StatusReview   StoryStatus = "review"
	StatusApproved StoryStatus = "approved"
)

// Statuses lists every status in workflow order.
var Statuses = []StoryStatus{StatusDraft, StatusReview, StatusApproved}

func (s StoryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved:
		return true
	}
	return false
}

// Label is the status as shown in summaries.
func (s StoryStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusReview:
		return "In Review"
	case StatusApproved:
		return "Approved"
	}
	return string(s)
}

// StatusCounts tallies the project's stories by status; every known status
// is present in the result.
func (p *Project) StatusCounts() map[StoryStatus]int {
	counts := make(map[StoryStatus]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, st := range p.Stories {
		counts[st.Status]++
	}
	return counts
}

// Clone returns a deep copy of the story.
func (s ProjectStory) Clone() ProjectStory {
	c := s
	c.AcceptanceCriteria = append([]string{}, s.AcceptanceCriteria...)
	c.Tags = append([]string{}, s.Tags...)
	if s.Attachments != nil {
		c.Attachments = append([]tdomain.FileAttachment(nil), s.Attachments...)
	}
	return c
}
