package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogue() []Member {
	return []Member{
		{ID: "1", Module: "Auth", FeatureName: "Login"},
		{ID: "2", Module: "Analytics", FeatureName: "Dashboard", Description: "charts"},
		{ID: "3", Module: "Auth", FeatureName: "Logout"},
	}
}

func TestReconciler_ModuleScenario(t *testing.T) {
	r := New(catalogue(), State{})

	r.ToggleModule("Auth")
	st := r.State()
	assert.Equal(t, []string{"Auth"}, st.SelectedModules)
	assert.Equal(t, []string{"1", "3"}, st.SelectedTemplateIDs)

	r.ToggleTemplate("2")
	assert.ElementsMatch(t, []string{"1", "2", "3"}, r.State().SelectedTemplateIDs)

	r.ToggleModule("Auth")
	st = r.State()
	assert.Empty(t, st.SelectedModules)
	assert.Equal(t, []string{"2"}, st.SelectedTemplateIDs)
}

func TestReconciler_DeselectCascadesOverIndividualPicks(t *testing.T) {
	r := New(catalogue(), State{})

	r.ToggleTemplate("1")
	r.ToggleModule("Auth")
	r.ToggleTemplate("3")
	r.ToggleTemplate("3")
	r.ToggleModule("Auth")

	assert.Empty(t, r.State().SelectedTemplateIDs)
}

func TestReconciler_ManualDeselectStaysUntilModuleRetoggled(t *testing.T) {
	r := New(catalogue(), State{})
	r.ToggleModule("Auth")
	r.ToggleTemplate("1")
	assert.Equal(t, []string{"3"}, r.State().SelectedTemplateIDs)

	// other module changes and an unchanged catalogue do not bring it back
	r.ToggleModule("Analytics")
	assert.NotContains(t, r.State().SelectedTemplateIDs, "1")
	r.SetCatalogue(catalogue())
	assert.NotContains(t, r.State().SelectedTemplateIDs, "1")

	// a restored draft keeps the manual deselection too
	restored := New(catalogue(), r.State())
	assert.NotContains(t, restored.State().SelectedTemplateIDs, "1")

	r.ToggleModule("Auth")
	r.ToggleModule("Auth")
	assert.Contains(t, r.State().SelectedTemplateIDs, "1")
}

func TestReconciler_SelectingModuleKeepsIndependentPicks(t *testing.T) {
	r := New(catalogue(), State{})
	r.ToggleTemplate("2")
	r.ToggleModule("Auth")
	assert.Equal(t, []string{"2", "1", "3"}, r.State().SelectedTemplateIDs)
}

func TestReconciler_UnknownIDsAreIgnored(t *testing.T) {
	r := New(catalogue(), State{SelectedTemplateIDs: []string{"1", "gone"}})
	assert.Equal(t, []string{"1"}, r.State().SelectedTemplateIDs)

	r.ToggleTemplate("nope")
	assert.Equal(t, []string{"1"}, r.State().SelectedTemplateIDs)
}

func TestReconciler_UnknownModuleIsIgnored(t *testing.T) {
	r := New(catalogue(), State{})
	r.ToggleTemplate("2")
	require.Len(t, r.Visible(), 3)

	r.ToggleModule("Nonexistent")

	assert.Equal(t, State{SelectedModules: []string{}, SelectedTemplateIDs: []string{"2"}}, r.State())
	assert.Len(t, r.Visible(), 3)
}

func TestReconciler_StaleModuleCanBeDeselected(t *testing.T) {
	r := New(catalogue(), State{SelectedModules: []string{"Retired"}})

	r.ToggleModule("Retired")

	assert.Empty(t, r.State().SelectedModules)
}

func TestReconciler_SetCataloguePrunesAndPullsNewMembers(t *testing.T) {
	r := New(catalogue(), State{})
	r.ToggleModule("Auth")
	r.ToggleTemplate("2")

	next := []Member{
		{ID: "2", Module: "Analytics"},
		{ID: "3", Module: "Auth"},
		{ID: "4", Module: "Auth"},
	}
	r.SetCatalogue(next)
	assert.Equal(t, []string{"3", "2", "4"}, r.State().SelectedTemplateIDs)
}

func TestReconciler_ClearAll(t *testing.T) {
	r := New(catalogue(), State{})
	r.ToggleModule("Auth")
	r.SetSearchTerm("log")
	r.ClearAll()

	assert.Equal(t, State{SelectedModules: []string{}, SelectedTemplateIDs: []string{}}, r.State())
}

func TestReconciler_Visible(t *testing.T) {
	r := New(catalogue(), State{})
	assert.Len(t, r.Visible(), 3)

	r.SetSearchTerm("AUTH")
	assert.Len(t, r.Visible(), 2, "search covers the module name")

	r.SetSearchTerm("chart")
	assert.Equal(t, []Member{catalogue()[1]}, r.Visible())

	r.SetSearchTerm("")
	r.ToggleModule("Analytics")
	assert.Equal(t, "2", r.Visible()[0].ID)
	assert.Len(t, r.Visible(), 1)
}
