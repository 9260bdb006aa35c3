package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	assert.Len(t, FixedUrges(), 3)
	assert.Len(t, SelectableUrges(), 3)
	assert.Len(t, CoreEmotions(), 6)
	assert.Len(t, SelectableGoals(), 10)
	assert.Len(t, FixedActions(), 2)
	assert.Len(t, SelectableActions(), 9)
}

func TestCatalogInputTypes(t *testing.T) {
	for _, item := range append(FixedUrges(), SelectableUrges()...) {
		assert.Equal(t, InputScale, item.InputType, item.ID)
	}
	for _, item := range CoreEmotions() {
		assert.Equal(t, InputScale, item.InputType, item.ID)
	}
	for _, item := range SelectableGoals() {
		assert.Equal(t, InputBinary, item.InputType, item.ID)
	}
	for _, item := range append(FixedActions(), SelectableActions()...) {
		assert.Equal(t, InputBinary, item.InputType, item.ID)
	}
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	all := [][]Item{
		FixedUrges(), SelectableUrges(), CoreEmotions(),
		SelectableGoals(), FixedActions(), SelectableActions(),
	}
	for _, items := range all {
		for _, item := range items {
			assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
			seen[item.ID] = true
		}
	}
}

func TestCustomConstructors(t *testing.T) {
	urge := CustomUrge("u1", "Urge to Scroll")
	assert.Equal(t, InputScale, urge.InputType)
	assert.Equal(t, "u1", urge.ID)
	assert.Equal(t, "Urge to Scroll", urge.Name)

	assert.Equal(t, InputBinary, CustomGoal("g1", "Journal").InputType)
	assert.Equal(t, InputBinary, CustomAction("a1", "Gambling").InputType)
}

func TestIDs(t *testing.T) {
	ids := IDs(FixedUrges())
	assert.Equal(t, []string{"self-harm", "suicide", "quit-dbt"}, ids)
}

func TestByID(t *testing.T) {
	item, ok := ByID("emotion-joy", FixedUrges(), CoreEmotions())
	require.True(t, ok)
	assert.Equal(t, "Joy", item.Name)

	_, ok = ByID("nope", FixedUrges(), CoreEmotions())
	assert.False(t, ok)
}
