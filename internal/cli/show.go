package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/recipebook/internal/view"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <index|id>",
		Short:         "Show one recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, ref string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	s, err := openSession(commandContext(cmd), cmd, opts)
	if err != nil {
		return formatter.Fail(err)
	}
	defer s.Close()

	i, err := s.book.Resolve(ref)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.IsJSON() {
		r, err := s.book.Get(i)
		if err != nil {
			return formatter.Fail(err)
		}
		return formatter.Success(RecipeResult{Index: i, Recipe: r})
	}
	return view.RenderRecipe(formatter.Writer, view.Project(s.book.State()).Cards[i])
}
