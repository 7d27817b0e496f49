package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mindmap.

Map and note IDs complete from the configured store.

Bash:
  $ source <(mindmap completion bash)

Zsh:
  $ mindmap completion zsh > "${fpath[1]}/_mindmap"

Fish:
  $ mindmap completion fish | source

PowerShell:
  PS> mindmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeMapID completes the first positional argument with the user's map IDs.
func (c *CLI) completeMapID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := c.newSession(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()

	choices, err := s.service.CompleteMaps(cmd.Context(), s.user, toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, len(choices))
	for i, ch := range choices {
		out[i] = ch.Value + "\t" + ch.Label
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeMapThenNode completes a map ID, then a note ID of that map.
func (c *CLI) completeMapThenNode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return c.completeMapID(cmd, args, toComplete)
	case 1:
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	s, err := c.newSession(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()

	choices, err := s.service.CompleteNodes(cmd.Context(), s.user, args[0], toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, len(choices))
	for i, ch := range choices {
		out[i] = ch.Value + "\t" + ch.Label
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
