// Package cli implements the umlconv command-line interface.
//
// Every command resolves its options the same way: the umlconv.toml or
// umlconv.yaml beside the input, then any flag given explicitly. Commands:
//   - generate: write the PlantUML documents, optionally on every change
//   - groups: list relationship groups or pick one document interactively
//   - serve: preview documents and the overview over HTTP
//   - export neo4j: load types and relationships into Neo4j
//   - cache: clear or locate the type model cache
//
// --verbose (-v) lowers the log level to debug, which also surfaces the
// pipeline stage and cache events. The logger travels in the command
// context:
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	err := c.RootCommand().ExecuteContext(ctx)
package cli
