// Package pkg provides the core libraries for umlconv class diagram generation.
//
// # Overview
//
// umlconv describes the types of a Go package (or a type model written by
// another tool) as PlantUML class diagrams. Every type becomes a block with
// its summary, events, fields, properties, constructors and methods; every
// structural relationship between two types becomes an arrow. The types are
// then split into maximal connected groups so that large packages produce
// several readable documents instead of one unreadable one.
//
// # Architecture
//
// The typical data flow through umlconv:
//
//	Go package / JSON / YAML model
//	         ↓
//	    [source] package (load type descriptors)
//	         ↓
//	    [uml] package (names, relationships, segments)
//	         ↓
//	    [typegraph] package (relationship graph + groups)
//	         ↓
//	    [render/plantuml] package (documents, pagination)
//	         ↓
//	    .uml files, DOT/SVG overview, Neo4j
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/pcleckler/UmlConversion/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Input: "./internal/store",
//	})
//	paths, _ := runner.Write(result, pipeline.Options{Input: "./internal/store"})
//
// # Main Packages
//
// ## Domain
//
// [descriptor] - The TypeDescriptor abstraction every stage works on, plus
// plain-data and compound implementations.
//
// [naming] - Canonical display names for descriptors, with generic argument
// expansion and a cache of every type seen.
//
// [uml] - Builds the diagram model: one block per type and the relationship
// edges between the types of the set.
//
// [typegraph] - The relationship graph and its partition into groups.
//
// ## Loading
//
// [source] - Input detection. [source/golang] type-checks Go packages;
// [source/model] reads JSON and YAML type models.
//
// ## Output
//
// [render/plantuml] - PlantUML documents, one per group, paginated.
//
// [render/nodelink] - Group overview as Graphviz DOT, rendered to SVG.
//
// [sink/neo4j] - Loads types and relationships into a Neo4j database.
//
// ## Infrastructure
//
// [pipeline] - Load → build → render orchestration shared by every command,
// including config files and watch mode.
//
// [cache] - Type model cache with file, Redis and null backends.
//
// [errors] - Coded errors with stack traces.
//
// [observability] - Hooks for load, build, render, cache and HTTP events.
//
// # Testing
//
//	go test ./...              # All tests
//	go test -short ./...       # Skip tests that run the go command
//	go test -run Example ./... # Examples only
//
// [descriptor]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/descriptor
// [naming]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/naming
// [uml]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/uml
// [typegraph]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/typegraph
// [source]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/source
// [source/golang]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/source/golang
// [source/model]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/source/model
// [render/plantuml]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/render/plantuml
// [render/nodelink]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/render/nodelink
// [sink/neo4j]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/sink/neo4j
// [pipeline]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/cache
// [errors]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/errors
// [observability]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/observability
package pkg
