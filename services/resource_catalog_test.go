package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStableIDs(t *testing.T) {
	c := NewResourceCatalog()

	all := c.All()
	require.NotEmpty(t, all)
	seen := map[string]bool{}
	for _, r := range all {
		assert.NotEmpty(t, r.ID)
		assert.False(t, seen[r.ID], "duplicate resource id %q", r.ID)
		seen[r.ID] = true
	}

	r, ok := c.Get("ust-legazpi-ogt")
	require.True(t, ok)
	assert.Equal(t, "UST-Legazpi Office of Guidance and Testing", r.Name)

	_, ok = c.Get("no-such-resource")
	assert.False(t, ok)
}

func TestCatalogFilter(t *testing.T) {
	c := NewResourceCatalog()

	byType := c.Filter("Government Service", "")
	require.Len(t, byType, 1)
	assert.Equal(t, "legazpi-city-mental-health", byType[0].ID)

	// "all" is a pass-through, matching the client's default tab.
	assert.Len(t, c.Filter("all", ""), len(c.All()))

	bySearch := c.Filter("", "psychiatry")
	require.NotEmpty(t, bySearch)
	for _, r := range bySearch {
		found := false
		for _, s := range append(append([]string(nil), r.Specialties...), r.Name, r.Type) {
			if strings.Contains(strings.ToLower(s), "psychiatry") {
				found = true
			}
		}
		assert.True(t, found, "resource %q does not match search", r.ID)
	}

	assert.Empty(t, c.Filter("", "orthodontics"))
}

func TestCatalogTypesAndExtras(t *testing.T) {
	c := NewResourceCatalog()

	types := c.Types()
	assert.Contains(t, types, "University Counseling")
	assert.Contains(t, types, "Hospital Service")

	contacts := c.CrisisContacts()
	require.NotEmpty(t, contacts)
	assert.Equal(t, "1553", contacts[0].Number)

	assert.NotEmpty(t, c.EducationalResources())
}
