package entities

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parse(t *testing.T, model interface{}) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestRecipe_ChildRowsCascade(t *testing.T) {
	s := parse(t, &Recipe{})

	for _, name := range []string{"Ingredients", "Relations"} {
		rel, ok := s.Relationships.Relations[name]
		require.True(t, ok, name)
		constraint := rel.ParseConstraint()
		require.NotNil(t, constraint, name)
		assert.Equal(t, "CASCADE", constraint.OnDelete, name)
	}
}

func TestTimestampsCarryTimeZone(t *testing.T) {
	for _, model := range []interface{}{&Recipe{}, &RecipeRelation{}, &User{}, &Subscription{}} {
		s := parse(t, model)
		field := s.LookUpField("CreatedAt")
		require.NotNil(t, field, s.Name)
		assert.Equal(t, "timestamp with time zone", field.TagSettings["TYPE"], s.Name)
	}
}
