package recipe

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Validation errors. Only required-field presence is checked.
var (
	ErrMissingTitle        = errors.New("title is required")
	ErrMissingIngredients  = errors.New("ingredients are required")
	ErrMissingInstructions = errors.New("instructions are required")
)

// Recipe is a single record in the book.
//
// ID is assigned once at creation and never changes, so a record can be
// addressed independently of its position. Records persisted by older
// writers may lack an ID; the book assigns one when loading them.
type Recipe struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Validate checks that every required field is present.
// Whitespace-only values count as missing. All failures are joined.
func (r Recipe) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if !slices.ContainsFunc(r.Ingredients, func(s string) bool { return strings.TrimSpace(s) != "" }) {
		errs = append(errs, ErrMissingIngredients)
	}
	if strings.TrimSpace(r.Instructions) == "" {
		errs = append(errs, ErrMissingInstructions)
	}
	return errors.Join(errs...)
}

// SameContent reports whether r and other hold the same title, ingredients
// and instructions. IDs are ignored.
func (r Recipe) SameContent(other Recipe) bool {
	return r.Title == other.Title &&
		r.Instructions == other.Instructions &&
		slices.Equal(r.Ingredients, other.Ingredients)
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	return r
}

// Normalize returns a deep copy of r with every string in NFC form and a
// non-nil ingredient list. Stored recipes are always normalized.
func (r Recipe) Normalize() Recipe {
	ingredients := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = norm.NFC.String(ing)
	}
	r.Title = norm.NFC.String(r.Title)
	r.Ingredients = ingredients
	r.Instructions = norm.NFC.String(r.Instructions)
	return r
}

// ParseIngredients splits comma-separated form input into ingredient tokens.
// Tokens are trimmed and empty tokens dropped; "water, tea leaf," yields
// ["water", "tea leaf"]. Returns an empty (non-nil) slice for blank input.
func ParseIngredients(s string) []string {
	out := []string{}
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// JoinIngredients is the inverse of ParseIngredients, used to pre-fill the
// edit form and the list display.
func JoinIngredients(ingredients []string) string {
	return strings.Join(ingredients, ", ")
}
