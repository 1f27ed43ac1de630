package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCriteria(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeCriteria([]string{"  a ", "", "   ", "b"}))
	assert.Equal(t, []string{}, NormalizeCriteria(nil))
	assert.Equal(t, []string{"first", "second"}, SplitCriteria("first\n\n  second  \n"))
}

func TestTemplateCloneIsDeep(t *testing.T) {
	tpl := Template{
		AcceptanceCriteria: []string{"a"},
		Attachments:        []FileAttachment{{ID: "f1"}},
	}
	in := tpl.Input()
	in.AcceptanceCriteria[0] = "changed"
	in.Attachments[0].ID = "changed"

	assert.Equal(t, "a", tpl.AcceptanceCriteria[0])
	assert.Equal(t, "f1", tpl.Attachments[0].ID)
}

func TestParseSortBy(t *testing.T) {
	for _, s := range []SortBy{SortNameAsc, SortNameDesc, SortDateNewest, SortDateOldest, SortNone} {
		got, err := ParseSortBy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseSortBy("random")
	assert.Error(t, err)
	assert.Equal(t, "Newest First", DefaultSort.Label())
}
