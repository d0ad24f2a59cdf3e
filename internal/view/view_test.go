package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/recipe"
)

func sampleState() book.State {
	return book.State{
		Recipes: []recipe.Recipe{
			{ID: "rec-0001", Title: "Tea", Ingredients: []string{"water", "tea leaf"}, Instructions: "Boil"},
			{ID: "rec-0002", Title: "Toast", Ingredients: []string{"bread"}, Instructions: "Toast it"},
		},
		EditingIndex: book.NotEditing,
	}
}

func editingState() book.State {
	st := sampleState()
	st.EditingIndex = 1
	st.Draft = st.Recipes[1]
	return st
}

func TestProject_NotEditing(t *testing.T) {
	p := Project(sampleState())

	assert.Equal(t, AppTitle, p.Title)
	assert.False(t, p.Form.Editing)
	assert.Equal(t, LabelSave, p.Form.SubmitLabel)
	assert.Empty(t, p.Form.Title)

	require.Len(t, p.Cards, 2)
	assert.Equal(t, Card{
		Index:        0,
		ID:           "rec-0001",
		Title:        "Tea",
		Ingredients:  "water, tea leaf",
		Instructions: "Boil",
	}, p.Cards[0])
	assert.False(t, p.Empty())
}

func TestProject_Editing(t *testing.T) {
	p := Project(editingState())

	assert.True(t, p.Form.Editing)
	assert.Equal(t, 1, p.Form.EditingIndex)
	assert.Equal(t, "Toast", p.Form.Title)
	assert.Equal(t, "bread", p.Form.Ingredients)
	assert.Equal(t, "Toast it", p.Form.Instructions)
	assert.Equal(t, LabelUpdate, p.Form.SubmitLabel)
	assert.False(t, p.Cards[0].Editing)
	assert.True(t, p.Cards[1].Editing)
}

func TestProject_Empty(t *testing.T) {
	p := Project(book.State{EditingIndex: book.NotEditing})
	assert.True(t, p.Empty())
	assert.NotNil(t, p.Cards)
}

func TestProject_IsPure(t *testing.T) {
	st := sampleState()
	assert.Equal(t, Project(st), Project(st))
}

func TestRenderHTML_ListAndForm(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Project(sampleState())))
	html := buf.String()

	assert.Contains(t, html, "<h1>Recipe Book</h1>")
	assert.Contains(t, html, `<h3>Tea</h3>`)
	assert.Contains(t, html, `<strong>Ingredients:</strong> water, tea leaf`)
	assert.Contains(t, html, `<strong>Instructions:</strong> Boil`)
	assert.Contains(t, html, `action="/recipes/1/delete"`)
	assert.Contains(t, html, `action="/recipes/0/edit"`)
	assert.Contains(t, html, ">Save Recipe</button>")
	assert.NotContains(t, html, "/edit/cancel")
	assert.Equal(t, 3, strings.Count(html, "required"))
}

func TestRenderHTML_EditingPrefillsForm(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Project(editingState())))
	html := buf.String()

	assert.Contains(t, html, `value="Toast"`)
	assert.Contains(t, html, `>bread</textarea>`)
	assert.Contains(t, html, ">Update Recipe</button>")
	assert.Contains(t, html, `action="/edit/cancel"`)
	assert.Contains(t, html, `class="recipe editing"`)
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	st := book.State{
		Recipes: []recipe.Recipe{
			{ID: "x", Title: "<script>alert(1)</script>", Ingredients: []string{"a&b"}, Instructions: "mix"},
		},
		EditingIndex: book.NotEditing,
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Project(st)))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "a&amp;b")
}

func TestRenderHTML_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Project(book.State{EditingIndex: book.NotEditing})))
	assert.Contains(t, buf.String(), "No recipes yet.")
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Project(sampleState())))

	want := "Recipe Book\n" +
		"2 recipes\n" +
		"\n" +
		"[0] Tea (rec-0001)\n" +
		"    Ingredients: water, tea leaf\n" +
		"    Instructions: Boil\n" +
		"\n" +
		"[1] Toast (rec-0002)\n" +
		"    Ingredients: bread\n" +
		"    Instructions: Toast it\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderText_Editing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Project(editingState())))

	out := buf.String()
	assert.Contains(t, out, "✎ editing [1] Toast\n")
	assert.Contains(t, out, "[1] Toast (rec-0002) ✎\n")
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Project(book.State{EditingIndex: book.NotEditing})))
	assert.Equal(t, "Recipe Book\nNo recipes yet.\n", buf.String())
}

func TestRenderRecipe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecipe(&buf, Project(sampleState()).Cards[0]))

	want := "Tea\n" +
		"    ID: rec-0001\n" +
		"    Index: 0\n" +
		"    Ingredients: water, tea leaf\n" +
		"    Instructions: Boil\n"
	assert.Equal(t, want, buf.String())
}
