package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/recipe"
)

func finalResult(editing int, recipes ...recipe.Recipe) *Result {
	result := NewResult()
	result.Final = book.State{Recipes: recipes, EditingIndex: editing}
	result.Trace = []TraceEvent{{Seq: 1, Op: OpCreate, Title: "Tea", Length: len(recipes)}}
	return result
}

func teaRecipe() recipe.Recipe {
	return recipe.Recipe{ID: "rec-0001", Title: "Tea", Ingredients: []string{"water", "tea leaf"}, Instructions: "Boil"}
}

func TestAssertLength(t *testing.T) {
	result := finalResult(book.NotEditing, teaRecipe())

	assert.NoError(t, assertLength(result, Assertion{Type: AssertLength, Count: intPtr(1)}))

	err := assertLength(result, Assertion{Type: AssertLength, Count: intPtr(3)})
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, "3 recipes", assertErr.Expected)
	assert.Equal(t, "1 recipes", assertErr.Actual)
}

func TestAssertTitles(t *testing.T) {
	toast := recipe.Recipe{ID: "rec-0002", Title: "Toast", Ingredients: []string{"bread"}, Instructions: "Toast it"}
	result := finalResult(book.NotEditing, teaRecipe(), toast)

	assert.NoError(t, assertTitles(result, Assertion{Titles: []string{"Tea", "Toast"}}))
	assert.Error(t, assertTitles(result, Assertion{Titles: []string{"Toast", "Tea"}}))
	assert.Error(t, assertTitles(result, Assertion{Titles: []string{"Tea"}}))
}

func TestAssertPersisted(t *testing.T) {
	result := NewResult()
	result.Persisted = "[]"

	assert.NoError(t, assertPersisted(result, Assertion{Value: strPtr("[]\n")}))

	err := assertPersisted(result, Assertion{Value: strPtr(`[{"title":"Tea"}]`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Actual: []")
}

func TestAssertEditing(t *testing.T) {
	idle := finalResult(book.NotEditing, teaRecipe())
	assert.NoError(t, assertEditing(idle, Assertion{}))
	assert.Error(t, assertEditing(idle, Assertion{Index: intPtr(0)}))

	busy := finalResult(0, teaRecipe())
	assert.NoError(t, assertEditing(busy, Assertion{Index: intPtr(0)}))

	err := assertEditing(busy, Assertion{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: not editing")
	assert.Contains(t, err.Error(), "Actual: editing index 0")
}

func TestAssertContains(t *testing.T) {
	result := finalResult(book.NotEditing, teaRecipe())

	assert.NoError(t, assertContains(result, Assertion{Recipe: tea()}))

	other := &RecipeInput{Title: "Tea", Ingredients: []string{"water"}, Instructions: "Boil"}
	err := assertContains(result, Assertion{Recipe: other})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertLength,
		Expected: "1 recipes",
		Actual:   "0 recipes",
		Trace: []TraceEvent{
			{Seq: 1, Op: OpDelete, Index: intPtr(4), Length: 0, Error: "recipe index out of range: 4 (have 0)"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: length")
	assert.Contains(t, msg, "[1] delete index=4 -> len=0")
	assert.Contains(t, msg, `error="recipe index out of range: 4 (have 0)"`)
}

func TestEvaluateAssertions_CollectsAll(t *testing.T) {
	result := finalResult(book.NotEditing, teaRecipe())
	result.Persisted = "[]"

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertLength, Count: intPtr(1)},
		{Type: AssertLength, Count: intPtr(2)},
		{Type: AssertPersisted, Value: strPtr("x")},
		{Type: "bogus"},
	})
	require.Len(t, errs, 3)
	assert.Contains(t, errs[2], `unknown assertion type "bogus"`)
}
