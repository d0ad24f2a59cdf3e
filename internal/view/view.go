// Package view maps book state to a page model and renders it.
//
// Project is a pure function of book.State. Renderers rebuild the whole page
// from the model on every call; nothing is patched incrementally.
package view

import (
	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/recipe"
)

// AppTitle is the heading shown above the form and list.
const AppTitle = "Recipe Book"

// Submit button labels.
const (
	LabelSave   = "Save Recipe"
	LabelUpdate = "Update Recipe"
)

// Page is everything a renderer needs to draw the recipe book.
type Page struct {
	Title string
	Form  Form
	Cards []Card
}

// Form is the add/edit form. While editing it is pre-filled with the
// selected recipe.
type Form struct {
	Editing      bool
	EditingIndex int
	Title        string
	Ingredients  string // comma separated
	Instructions string
	SubmitLabel  string
}

// Card is one recipe in the list.
type Card struct {
	Index        int
	ID           string
	Title        string
	Ingredients  string // joined with ", "
	Instructions string
	Editing      bool
}

// Empty reports whether the list has no recipes.
func (p Page) Empty() bool {
	return len(p.Cards) == 0
}

// Project builds the page model for st.
func Project(st book.State) Page {
	p := Page{
		Title: AppTitle,
		Form: Form{
			EditingIndex: book.NotEditing,
			SubmitLabel:  LabelSave,
		},
		Cards: make([]Card, len(st.Recipes)),
	}

	if st.Editing() {
		p.Form = Form{
			Editing:      true,
			EditingIndex: st.EditingIndex,
			Title:        st.Draft.Title,
			Ingredients:  recipe.JoinIngredients(st.Draft.Ingredients),
			Instructions: st.Draft.Instructions,
			SubmitLabel:  LabelUpdate,
		}
	}

	for i, r := range st.Recipes {
		p.Cards[i] = Card{
			Index:        i,
			ID:           r.ID,
			Title:        r.Title,
			Ingredients:  recipe.JoinIngredients(r.Ingredients),
			Instructions: r.Instructions,
			Editing:      i == st.EditingIndex,
		}
	}
	return p
}
