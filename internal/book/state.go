package book

import "github.com/roach88/recipebook/internal/recipe"

// NotEditing is the EditingIndex of a State with an empty editing slot.
const NotEditing = -1

// State is an immutable snapshot of the book handed to renderers.
// Renderers must treat it as read-only; each snapshot owns its slices.
type State struct {
	// Recipes in display order.
	Recipes []recipe.Recipe

	// EditingIndex is the slot a form submission will overwrite, or
	// NotEditing when a submission creates a new recipe.
	EditingIndex int

	// Draft holds the values the form is pre-filled with. It is the zero
	// Recipe when not editing.
	Draft recipe.Recipe
}

// Editing reports whether a recipe is selected for editing.
func (s State) Editing() bool {
	return s.EditingIndex != NotEditing
}

// Renderer is invoked with a fresh State after every change.
type Renderer func(State)
