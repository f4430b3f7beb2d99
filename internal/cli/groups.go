package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// groupsCommand creates the groups command.
func (c *CLI) groupsCommand() *cobra.Command {
	var (
		flags       pipelineFlags
		interactive bool
		members     bool
	)

	cmd := &cobra.Command{
		Use:   "groups <input>",
		Short: "List the documents and relationship groups of an input",
		Long: `List the documents generate would write, one per relationship group.

With --interactive, pick a document from a list and print its PlantUML text
to stdout. Nothing is written to disk.`,
		Args: requireInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			opts.Overview = nil

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runGroups(cmd.Context(), runner, opts)
			if err != nil {
				return err
			}
			if interactive {
				return pickDocument(result.Documents)
			}
			printGroups(result, members)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a document and print it")
	cmd.Flags().BoolVar(&members, "members", false, "list the types of every group")

	return cmd
}

func runGroups(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, "Building diagram model...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

// printGroups renders the document table, optionally followed by the
// members of every group.
func printGroups(result *pipeline.Result, members bool) {
	if len(result.Documents) == 0 {
		printWarning("No types to diagram in %s", result.Set.Module)
		return
	}

	rows := make([][]string, 0, len(result.Documents))
	for _, d := range result.Documents {
		rows = append(rows, documentRow("", d))
	}
	fmt.Fprintln(stdout, documentTable(rows).Render())
	printStats(result.Stats, result.CacheInfo)

	if !members {
		return
	}
	for _, g := range result.Build.Partition.All() {
		printNewline()
		fmt.Fprintln(stdout, StyleTitle.Render(g.Label) + " " + StyleNumber.Render(fmt.Sprintf("(%d)", len(g.Members))))
		for _, m := range g.Members {
			printDetail("%s", m)
		}
	}
}

// pickDocument runs the interactive picker and prints the chosen document.
func pickDocument(docs []pipeline.Document) error {
	if len(docs) == 0 {
		printWarning("No documents to choose from")
		return nil
	}
	final, err := tea.NewProgram(NewGroupListModel(docs), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(GroupListModel)
	if !ok || m.Selected == nil {
		return nil
	}
	fmt.Fprint(stdout, m.Selected.Text)
	return nil
}
