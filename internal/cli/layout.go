package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mockboard/internal/app"
	"mockboard/internal/canvas"
	"mockboard/internal/domain"
	"mockboard/internal/storage"
)

func newLayoutCmd(st *rootState) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "layout <collection> <strategy>",
		Short: "Arrange a collection's screens and print the positions",
		Long: fmt.Sprintf(`Apply a layout strategy to every screen of a collection.

The collection may be given by id or name. Strategies: %s
(aliases: linear and row for tight, staggered for flow).`, strings.Join(canvas.Layouts, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			stack, err := app.OpenStack(ctx, st.cfg, nopEmitter{}, logger)
			if err != nil {
				return err
			}
			defer stack.Close(context.Background())

			c, err := findCollection(stack, args[0])
			if err != nil {
				return err
			}

			var positions map[string]canvas.Point
			if dryRun {
				// Read the screens directly; opening the collection would
				// save slots for unplaced screens.
				screens, err := storage.NewScreenStore(stack.DB).ListScreens(c.ID)
				if err != nil {
					return fmt.Errorf("list screens: %w", err)
				}
				ids := make([]string, len(screens))
				for i, sc := range screens {
					ids[i] = sc.ID
				}
				positions, err = canvas.NewLayoutEngine().Apply(args[1], ids)
				if err != nil {
					return err
				}
			} else {
				if _, err := stack.Board.OpenCollection(ctx, c.ID); err != nil {
					return err
				}
				positions, err = stack.Board.ApplyLayout(ctx, args[1])
				if err != nil {
					return err
				}
			}

			printPositions(cmd, positions)
			prog.done(fmt.Sprintf("Arranged %d screen(s) of %q", len(positions), c.Name))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the positions without saving them")
	return cmd
}

func newCollectionsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stack, err := app.OpenStack(ctx, st.cfg, nopEmitter{}, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer stack.Close(context.Background())

			list, err := stack.Board.ListCollections()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tZOOM")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%.2f\n", c.ID, c.Name, c.Zoom)
			}
			return w.Flush()
		},
	}
}

// findCollection matches ref against ids first, then names.
func findCollection(stack *app.Stack, ref string) (*domain.Collection, error) {
	list, err := stack.Board.ListCollections()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == ref {
			return &list[i], nil
		}
	}
	for i := range list {
		if strings.EqualFold(list[i].Name, ref) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("collection %q not found", ref)
}

func printPositions(cmd *cobra.Command, positions map[string]canvas.Point) {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCREEN\tX\tY")
	for _, id := range ids {
		p := positions[id]
		fmt.Fprintf(w, "%s\t%g\t%g\n", id, p.X, p.Y)
	}
	w.Flush()
}
