package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/streakone/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair fixable conflicts (duplicate records, repeated days, stale streak counts)."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	ctx.println("Validating streaks...")
	result, err := ctx.Repo.Check(bg)
	if err != nil {
		return fmt.Errorf("failed to load streaks: %w", err)
	}

	ctx.println()
	ctx.println(result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	actions, err := ctx.Repo.Fix(bg)
	if err != nil {
		return fmt.Errorf("failed to apply fixes: %w", err)
	}
	printFixes(ctx, actions)
	return nil
}

func printFixes(ctx *Context, actions []validation.FixAction) {
	if len(actions) == 0 {
		ctx.println("No automatic fixes available.")
		return
	}
	ctx.printf("Applied %d fix(es):\n", len(actions))
	for _, a := range actions {
		ctx.printf("  ✓ %s\n", a.Action)
	}
}
