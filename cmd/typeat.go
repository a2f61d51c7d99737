package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var TypeAtCmd = &cobra.Command{
	Use:          "type-at FILE LINE COLUMN",
	Short:        "print the type of the expression at a position",
	RunE:         runTypeAt,
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
}

var typeAtFlags projectFlags

func init() {
	typeAtFlags = addProjectFlags(TypeAtCmd)
}

func runTypeAt(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[1], args[2])
	if err != nil {
		return err
	}
	p, err := typeAtFlags.load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := p.open(ctx, args[0])
	if err != nil {
		return err
	}
	info, ok, err := s.TypeAt(ctx, pos)
	if err != nil {
		return fmt.Errorf("could not infer type: %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(unknown)")
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.Type.String())
	return nil
}
