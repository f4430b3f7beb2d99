package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// completionGenerators maps each supported shell to its cobra generator.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        (*cobra.Command).GenZshCompletion,
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": (*cobra.Command).GenPowerShellCompletionWithDesc,
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for umlconv commands, flags and overview formats.

  source <(umlconv completion bash)
  umlconv completion zsh > "${fpath[1]}/_umlconv"
  umlconv completion fish > ~/.config/fish/completions/umlconv.fish
  umlconv completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeOverviewFormats offers the overview formats for --overview.
func completeOverviewFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	formats := []string{pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}
	return formats, cobra.ShellCompDirectiveNoFileComp
}
