package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cottand/flowty/frontend/complete"
	"github.com/cottand/flowty/protocol"
	"github.com/spf13/cobra"
)

var CompleteCmd = &cobra.Command{
	Use:          "complete FILE LINE COLUMN",
	Short:        "list the completions at a position",
	RunE:         runComplete,
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
}

var (
	completeFlags projectFlags
	asJSON        *bool
	triggerChar   *string
)

func init() {
	completeFlags = addProjectFlags(CompleteCmd)
	asJSON = CompleteCmd.Flags().Bool("json", false, "print an LSP completion list")
	triggerChar = CompleteCmd.Flags().StringP("trigger", "t", "", "the character that triggered the completion, if any")
}

func runComplete(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[1], args[2])
	if err != nil {
		return err
	}
	p, err := completeFlags.load()
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
	trigger := complete.Trigger{Kind: complete.Invoked}
	if *triggerChar != "" {
		trigger = complete.Trigger{Kind: complete.TriggerCharacter, Char: *triggerChar}
	}
	c, err := s.Completion(ctx, pos, trigger)
	if err != nil {
		return fmt.Errorf("could not complete: %w", err)
	}

	out := cmd.OutOrStdout()
	if *asJSON {
		list := protocol.NewCompletionList(c, protocol.Server{Name: "flowty", Root: *completeFlags.root})
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, it := range c.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", it.Label, it.Detail)
	}
	return w.Flush()
}
