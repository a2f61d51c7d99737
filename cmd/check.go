package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cottand/flowty/flowty"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var CheckCmd = &cobra.Command{
	Use:          "check [FILES]",
	Short:        "type check .js files and report their errors",
	RunE:         runCheck,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var checkFlags projectFlags

var noColor *bool

func init() {
	checkFlags = addProjectFlags(CheckCmd)
	noColor = CheckCmd.Flags().Bool("no-color", false, "disable coloured output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := checkFlags.load()
	if err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}
	snaps, err := p.check(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errCount := 0
	for _, snap := range snaps {
		n := snap.Result.Errors.Len()
		if n == 0 {
			continue
		}
		errCount += n
		_, _ = fmt.Fprintln(out, color.RedString(snap.Format()))
		_, _ = fmt.Fprintln(out)
	}
	if errCount == 0 {
		_, _ = fmt.Fprintln(out, color.GreenString("No errors!"))
		return nil
	}
	plural := "s"
	if errCount == 1 {
		plural = ""
	}
	_, _ = fmt.Fprintln(out, color.New(color.FgRed, color.Bold).Sprintf("Found %d error%s", errCount, plural))
	return fmt.Errorf("found %d error%s", errCount, plural)
}

// check analyses every file, at most Check.Parallelism at a time. The
// snapshots are returned in the order of paths.
func (p *project) check(ctx context.Context, paths []string) ([]*flowty.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("could not check %s: %w", path, err)
		}
	}
	snaps := make([]*flowty.Snapshot, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Check.Parallelism)
	for i, path := range paths {
		g.Go(func() error {
			s, err := p.open(ctx, path)
			if err != nil {
				return err
			}
			// the session is no longer needed once its snapshot is taken
			defer p.workspace.Close(path)
			snap, err := s.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("could not check %s: %w", path, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}
