package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/notes"
)

// nodeCommand creates the node command with subcommands.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Aliases: []string{"note"},
		Short:   "Add, remove and edit the notes of a mind map",
	}

	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeEditCommand())

	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "add <map-id> <text> [color]",
		Short:             "Add a note; color is a CSS name or #rrggbb (default white)",
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: c.completeMapID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			color := ""
			if len(args) == 3 {
				color = args[2]
			}
			node, err := s.service.AddNode(ctx, s.user, args[0], args[1], color)
			if err != nil {
				return err
			}
			c.out().success("Added note %s to %s", StyleHighlight.Render(node.ID), StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <map-id> <node-id>",
		Aliases:           []string{"rm"},
		Short:             "Remove a note",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeMapThenNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.RemoveNode(ctx, s.user, args[0], args[1]); err != nil {
				return err
			}
			c.out().success("Removed note %s from %s", StyleHighlight.Render(args[1]), StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) nodeEditCommand() *cobra.Command {
	var edit notes.NodeEdit

	cmd := &cobra.Command{
		Use:               "edit <map-id> <node-id> [--text] [--color]",
		Short:             "Change the text and/or color of a note",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeMapThenNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			if edit.Text == "" && edit.Color == "" {
				return errors.InvalidInput("give --text and/or --color; use 'mindmap node remove' to delete a note")
			}
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			changes, err := s.service.EditNode(ctx, s.user, args[0], args[1], edit)
			if err != nil {
				return err
			}
			p := c.out()
			if len(changes) == 0 {
				p.info("Note %s is unchanged", StyleHighlight.Render(args[1]))
				return nil
			}
			p.success("Edited note %s", StyleHighlight.Render(args[1]))
			for _, ch := range changes {
				p.detail("%s", ch)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&edit.Text, "text", "", "new note text")
	cmd.Flags().StringVar(&edit.Color, "color", "", "new note color")
	return cmd
}
