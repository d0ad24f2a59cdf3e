package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index|id>",
		Short: "Delete a recipe",
		Long: `Remove a recipe and save. Recipes after it move up one index.

Deleting does not ask for confirmation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runDelete(opts *RootOptions, ref string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	s, err := openSession(ctx, cmd, opts)
	if err != nil {
		return formatter.Fail(err)
	}
	defer s.Close()

	i, err := s.book.Resolve(ref)
	if err != nil {
		return formatter.Fail(err)
	}
	removed, err := s.book.Delete(ctx, i)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.IsJSON() {
		return formatter.Success(RecipeResult{Index: i, Recipe: removed})
	}
	return formatter.Success(fmt.Sprintf("✓ Deleted [%d] %s", i, removed.Title))
}
