package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// helpInfoCommand creates the help-info command. root must be the finished
// command tree; the registry is built from it on each run.
func (c *CLI) helpInfoCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help-info [command]",
		Short: "List commands or show the usage of one",
		Args:  cobra.ArbitraryArgs,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			reg := helpRegistry(root)
			var out []string
			for _, s := range reg.Complete(toComplete) {
				out = append(out, s.Value+"\t"+s.Label)
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := helpRegistry(root)
			if len(args) == 0 {
				fmt.Fprintln(c.Out, commandTable(reg))
				return nil
			}

			name := strings.Join(args, " ")
			e, ok := reg.Lookup(name)
			if !ok {
				p := c.out()
				for _, s := range reg.Complete(name) {
					p.detail("did you mean %s?", s.Value)
				}
				return errors.New(errors.ErrCodeNotFound, "unknown command %q", name)
			}

			p := c.out()
			p.keyValue("Command", e.Path)
			p.keyValue("Description", e.Description)
			p.keyValue("Usage", e.Usage(reg.Program()))
			for _, s := range e.Subcommands {
				p.detail("%s  %s", styleCommand.Render(s.Usage(reg.Program())), StyleDim.Render(s.Description))
			}
			return nil
		},
	}
}
