package domain

import (
	"strings"
	"time"
)

// Template is a reusable user story definition tagged with a module.
type Template struct {
	ID                 string           `json:"id"`
	FeatureName        string           `json:"featureName"`
	Description        string           `json:"description"`
	Role               string           `json:"role"`
	Goal               string           `json:"goal"`
	Benefit            string           `json:"benefit"`
	AcceptanceCriteria []string         `json:"acceptanceCriteria"`
	Module             string           `json:"module"`
	Attachments        []FileAttachment `json:"attachments,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// FileAttachment references a file in blob storage.
type FileAttachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TemplateInput carries the user-editable fields of a template.
type TemplateInput struct {
	FeatureName        string           `json:"featureName"`
	Description        string           `json:"description"`
	Role               string           `json:"role"`
	Goal               string           `json:"goal"`
	Benefit            string           `json:"benefit"`
	AcceptanceCriteria []string         `json:"acceptanceCriteria"`
	Module             string           `json:"module"`
	Attachments        []FileAttachment `json:"attachments"`
}

// TemplatePatch is a partial update; nil fields are left untouched.
type TemplatePatch struct {
	FeatureName        *string           `json:"featureName,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Role               *string           `json:"role,omitempty"`
	Goal               *string           `json:"goal,omitempty"`
	Benefit            *string           `json:"benefit,omitempty"`
	AcceptanceCriteria *[]string         `json:"acceptanceCriteria,omitempty"`
	Module             *string           `json:"module,omitempty"`
	Attachments        *[]FileAttachment `json:"attachments,omitempty"`
}

// NormalizeCriteria trims every criterion and drops the blank ones.
func NormalizeCriteria(criteria []string) []string {
	out := make([]string, 0, len(criteria))
	for _, c := range criteria {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// SplitCriteria turns the one-per-line text of the template form into
// normalized criteria.
func SplitCriteria(text string) []string {
	return NormalizeCriteria(strings.Split(text, "\n"))
}

// Clone returns a deep copy so callers never share slices with t.
func (t Template) Clone() Template {
	c := t
	c.AcceptanceCriteria = append([]string(nil), t.AcceptanceCriteria...)
	if t.Attachments != nil {
		c.Attachments = append([]FileAttachment(nil), t.Attachments...)
	}
	return c
}

// Input returns the editable fields of t.
func (t Template) Input() TemplateInput {
	c := t.Clone()
	return TemplateInput{
		FeatureName:        c.FeatureName,
		Description:        c.Description,
		Role:               c.Role,
		Goal:               c.Goal,
		Benefit:            c.Benefit,
		AcceptanceCriteria: c.AcceptanceCriteria,
		Module:             c.Module,
		Attachments:        c.Attachments,
	}
}
