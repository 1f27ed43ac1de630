package domain

// StoryField names an editable field of a ProjectStory.
type StoryField string

const (
	FieldFeatureName        StoryField = "featureName"
	FieldDescription        StoryField = "description"
	FieldRole               StoryField = "role"
	FieldGoal               StoryField = "goal"
	FieldBenefit            StoryField = "benefit"
	FieldModule             StoryField = "module"
	FieldCustomizations     StoryField = "customizations"
	FieldStatus             StoryField = "status"
	FieldTags               StoryField = "tags"
	FieldAcceptanceCriteria StoryField = "acceptanceCriteria"
)

// IsList reports whether the field holds a list of strings.
func (f StoryField) IsList() bool {
	return f == FieldTags || f == FieldAcceptanceCriteria
}

func (f StoryField) Valid() bool {
	switch f {
	case FieldFeatureName, FieldDescription, FieldRole, FieldGoal, FieldBenefit,
		FieldModule, FieldCustomizations, FieldStatus, FieldTags, FieldAcceptanceCriteria:
		return true
	}
	return false
}
