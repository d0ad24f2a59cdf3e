package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/recipebook/internal/recipe"
	"github.com/roach88/recipebook/internal/view"
)

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Recipes []recipe.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recipes",
		Long: `List every recipe in the book, in order.

The number in brackets is the recipe's index, which edit, show and delete
accept in place of its ID.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	s, err := openSession(commandContext(cmd), cmd, opts)
	if err != nil {
		return formatter.Fail(err)
	}
	defer s.Close()

	if formatter.IsJSON() {
		recipes := s.book.Recipes()
		return formatter.Success(ListResult{Recipes: recipes, Count: len(recipes)})
	}
	return view.RenderText(formatter.Writer, view.Project(s.book.State()))
}
