package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags pipelineFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate class diagrams for a Go package or type model",
		Long: `Generate PlantUML class diagrams.

The input is a Go package directory or pattern (./..., ./internal/store) or a
JSON/YAML type model file. Documents are written to a UML directory beside
the input: {base}.All.uml with every type, then one document per group of
related types and {base}.NoReferences.uml for types without relationships.`,
		Example: `  umlconv generate ./pkg/store
  umlconv generate ./... --max-types-per-page 100 --timestamp
  umlconv generate model.json --out docs/uml --svg
  umlconv generate ./pkg/store --watch`,
		Args: requireInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg.Cache, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if watch {
				return c.runWatch(cmd.Context(), runner, opts)
			}
			return c.runGenerate(cmd.Context(), runner, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the input changes")

	return cmd
}

// runGenerate runs the pipeline once and writes its outputs.
func (c *CLI) runGenerate(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Generating diagrams...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.SetMessage("Writing diagrams...")
	paths, err := runner.Write(result, opts)
	if err != nil {
		spinner.StopWithError("Writing diagrams failed")
		return err
	}
	spinner.Stop()
	prog.done("Generated diagrams")

	printResult(result, paths)
	if len(result.Documents) > 0 {
		printNewline()
		printNextStep("Preview in a browser", "umlconv serve "+opts.Input)
	}
	return nil
}

// runWatch regenerates on every relevant change until ctx is cancelled.
func (c *CLI) runWatch(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	printInline("Watching %s (ctrl+c to stop)", opts.Input)
	printNewline()

	return runner.Watch(ctx, opts, func(result *pipeline.Result, paths []string, err error) {
		if err != nil {
			printError("%v", err)
			return
		}
		printResult(result, paths)
	})
}

// printResult summarizes a pipeline run.
func printResult(result *pipeline.Result, paths []string) {
	if len(result.Documents) == 0 {
		printWarning("No types to diagram in %s", result.Set.Module)
		return
	}
	printSuccess("Generated %d documents for %s", len(result.Documents), StyleHighlight.Render(result.Set.Module))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo)
}
