package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
	"github.com/pcleckler/UmlConversion/pkg/sink/neo4j"
)

// exportCommand creates the export command group.
func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the type graph to external stores",
	}

	cmd.AddCommand(c.exportNeo4jCommand())

	return cmd
}

// exportNeo4jCommand creates the "export neo4j" subcommand.
func (c *CLI) exportNeo4jCommand() *cobra.Command {
	var (
		flags pipelineFlags
		cfg   neo4j.Config
	)

	cmd := &cobra.Command{
		Use:   "neo4j <input>",
		Short: "Load types and relationships into Neo4j",
		Long: `Load every type as a TypeNode and every relationship as a typed edge
(COMPOSED_OF, ENCLOSES, IMPLEMENTS, INHERITS, REFERENCES, EXTENDS).

Nodes of the input's module are replaced on every export. The password
defaults to $NEO4J_PASSWORD.`,
		Example: `  umlconv export neo4j ./pkg/store --password secret
  umlconv export neo4j model.json --uri neo4j://graph:7687 --database types`,
		Args: requireInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, config, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			if cfg.Password == "" {
				cfg.Password = os.Getenv("NEO4J_PASSWORD")
			}

			runner, err := c.newRunner(cmd.Context(), config.Cache, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return c.runExportNeo4j(cmd.Context(), runner, opts, cfg)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&cfg.URI, "uri", neo4j.DefaultURI, "Neo4j connection URI")
	cmd.Flags().StringVar(&cfg.User, "user", neo4j.DefaultUser, "Neo4j user")
	cmd.Flags().StringVar(&cfg.Password, "password", "", "Neo4j password")
	cmd.Flags().StringVar(&cfg.Database, "database", "", "Neo4j database (default: server default)")

	return cmd
}

func (c *CLI) runExportNeo4j(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, cfg neo4j.Config) error {
	prog := newProgress(c.Logger)

	loaded, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	built, err := runner.Build(ctx, loaded.Set, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Exporting to "+cfg.URI+"...")
	spinner.Start()

	exp, err := neo4j.Connect(ctx, cfg, c.Logger)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	defer exp.Close(context.WithoutCancel(ctx))

	stats, err := exp.Export(ctx, loaded.Set.Module, built.Context, built.Partition)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()
	prog.done("Exported type graph")

	printSuccess("Exported %s to %s", StyleHighlight.Render(loaded.Set.Module), cfg.URI)
	printKeyValue("Nodes", StyleNumber.Render(plural(stats.Nodes, "type")))
	printKeyValue("Edges", StyleNumber.Render(plural(stats.Relationships, "relationship")))
	printKeyValue("Groups", StyleNumber.Render(plural(len(built.Partition.All()), "group")))
	return nil
}
