package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/recipebook/internal/recipe"
)

// RecipeFlags holds the recipe fields accepted by add and edit.
type RecipeFlags struct {
	Title        string
	Ingredients  string // comma separated
	Instructions string
}

func (f *RecipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "recipe title")
	cmd.Flags().StringVar(&f.Ingredients, "ingredients", "", "comma-separated ingredients")
	cmd.Flags().StringVar(&f.Instructions, "instructions", "", "preparation instructions")
}

// Recipe builds a recipe from the flag values.
func (f *RecipeFlags) Recipe() recipe.Recipe {
	return recipe.Recipe{
		Title:        f.Title,
		Ingredients:  recipe.ParseIngredients(f.Ingredients),
		Instructions: f.Instructions,
	}
}

// RecipeResult is the JSON payload of commands that touch one recipe.
type RecipeResult struct {
	Index  int           `json:"index"`
	Recipe recipe.Recipe `json:"recipe"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &RecipeFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Long: `Append a recipe to the end of the book and save.

All three fields are required.

Example:
  recipebook add --title Tea --ingredients "water, tea leaf" --instructions Boil`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, flags, cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func runAdd(opts *RootOptions, flags *RecipeFlags, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	s, err := openSession(commandContext(cmd), cmd, opts)
	if err != nil {
		return formatter.Fail(err)
	}
	defer s.Close()

	created, err := s.book.Create(commandContext(cmd), flags.Recipe())
	if err != nil {
		return formatter.Fail(err)
	}
	index := s.book.Len() - 1

	if formatter.IsJSON() {
		return formatter.Success(RecipeResult{Index: index, Recipe: created})
	}
	return formatter.Success(fmt.Sprintf("✓ Added [%d] %s (%s)", index, created.Title, created.ID))
}
