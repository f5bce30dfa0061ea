package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sankey.

Bash:
  $ source <(sankey completion bash)

Zsh:
  $ sankey completion zsh > "${fpath[1]}/_sankey"

Fish:
  $ sankey completion fish > ~/.config/fish/completions/sankey.fish

PowerShell:
  PS> sankey completion powershell | Out-String | Invoke-Expression

Besides commands and flags, the scripts complete the values of --type,
--align, --cycles, --style and --format.`,
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
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// Completion candidates for option values.
var flagValues = map[string][]string{
	"type":   {"sankey\tcolumns of nodes joined by bands", "nodelink\tGraphviz node-link diagram"},
	"align":  {"left", "right", "justify", "center"},
	"cycles": {"reject\tfail on cyclic graphs", "break\tignore back-edges when assigning columns"},
	"style":  {"simple\tstroked link center lines", "ribbon\tfilled link outlines"},
	"format": {pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatPNG, pipeline.FormatPDF},
}

// registerValueCompletions wires flagValues into every matching flag of cmd.
// --format takes a comma-separated list, so it completes without a space.
func registerValueCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		directive := cobra.ShellCompDirectiveNoFileComp
		if name == "format" {
			directive |= cobra.ShellCompDirectiveNoSpace
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, directive))
	}
}
