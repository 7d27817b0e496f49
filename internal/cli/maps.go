package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/recordio"
)

// mapCommand creates the map command with subcommands.
func (c *CLI) mapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Create, rename, delete and list mind maps",
	}

	cmd.AddCommand(c.mapCreateCommand())
	cmd.AddCommand(c.mapRenameCommand())
	cmd.AddCommand(c.mapDeleteCommand())
	cmd.AddCommand(c.mapListCommand())
	cmd.AddCommand(c.mapShowCommand())

	return cmd
}

func (c *CLI) mapCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a mind map",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.service.CreateMap(ctx, s.user, strings.Join(args, " "))
			if err != nil {
				return err
			}
			p := c.out()
			p.success("Created mind map %s", StyleHighlight.Render(rec.ID))
			p.nextStep("Add a note", "mindmap node add "+rec.ID+` "text" [color]`)
			return nil
		},
	}
}

func (c *CLI) mapRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <map-id> <new-name>",
		Short:             "Change the name of a mind map",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeMapID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			change, err := s.service.RenameMap(ctx, s.user, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			p := c.out()
			p.success("Renamed mind map %s", StyleHighlight.Render(args[0]))
			p.detail("%s", change)
			return nil
		},
	}
}

func (c *CLI) mapDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <map-id>",
		Short:             "Delete a mind map and all its notes",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMapID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.DeleteMap(ctx, s.user, args[0]); err != nil {
				return err
			}
			c.out().success("Deleted mind map %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) mapListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your mind maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			maps, err := s.service.ListMaps(ctx, s.user)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(maps)
			}

			p := c.out()
			if len(maps) == 0 {
				p.info("No mind maps yet")
				p.nextStep("Create one", `mindmap map create "name"`)
				return nil
			}
			fmt.Fprintln(c.Out, mapTable(maps))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func (c *CLI) mapShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "show <map-id>",
		Short:             "Show the notes of a mind map",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMapID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.service.GetMap(ctx, s.user, args[0])
			if err != nil {
				return err
			}

			switch format {
			case "json", "yaml":
				return recordio.WriteRecord(rec, c.Out, recordio.Format(format))
			case "", "table":
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want table, json or yaml)", format)
			}

			p := c.out()
			p.keyValue("ID", rec.ID)
			p.keyValue("Name", rec.Name)
			p.keyValue("Notes", strconv.Itoa(rec.NodeCount()))
			if rec.NodeCount() > 0 {
				fmt.Fprintln(c.Out, nodeTable(rec))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json, yaml")
	return cmd
}
