package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &RecipeFlags{}

	cmd := &cobra.Command{
		Use:   "edit <index|id>",
		Short: "Change a recipe",
		Long: `Change fields of an existing recipe and save.

Only the flags given are changed; the others keep their current value.
The recipe keeps its ID and position.

Examples:
  recipebook edit 0 --title "Green Tea"
  recipebook edit 0190a6c4-... --ingredients "water, green tea"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, flags, args[0], cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func runEdit(opts *RootOptions, flags *RecipeFlags, ref string, cmd *cobra.Command) error {
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
	current, err := s.book.Get(i)
	if err != nil {
		return formatter.Fail(err)
	}

	next := current.Clone()
	changed := false
	if cmd.Flags().Changed("title") {
		next.Title = flags.Title
		changed = true
	}
	if cmd.Flags().Changed("ingredients") {
		next.Ingredients = flags.Recipe().Ingredients
		changed = true
	}
	if cmd.Flags().Changed("instructions") {
		next.Instructions = flags.Instructions
		changed = true
	}
	if !changed {
		return formatter.Fail(NewExitError(ExitCommandError, "nothing to change: pass --title, --ingredients or --instructions"))
	}

	if err := s.book.Update(ctx, i, next); err != nil {
		return formatter.Fail(err)
	}
	updated, err := s.book.Get(i)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.IsJSON() {
		return formatter.Success(RecipeResult{Index: i, Recipe: updated})
	}
	return formatter.Success(fmt.Sprintf("✓ Updated [%d] %s", i, updated.Title))
}
