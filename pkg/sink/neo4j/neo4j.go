// Package neo4j exports the typed relationship graph of a build into a
// Neo4j database.
//
// Every diagram type becomes a TypeNode keyed by "{module}:{canonical name}"
// and every relationship edge becomes a relationship of the matching type
// (COMPOSED_OF, ENCLOSES, IMPLEMENTS, INHERITS, REFERENCES, EXTENDS). Rows
// are written with batched UNWIND ... MERGE queries, so exporting the same
// module twice leaves one copy of the graph.
package neo4j

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

const (
	DefaultURI  = "bolt://localhost:7687"
	DefaultUser = "neo4j"

	// DefaultBatchSize bounds the rows sent per UNWIND query.
	DefaultBatchSize = 500
)

// Config holds connection settings.
type Config struct {
	URI      string
	User     string
	Password string
	// Database selects a database; empty uses the server default.
	Database string
}

// Querier runs one Cypher statement.
type Querier interface {
	Query(ctx context.Context, cypher string, params map[string]any) error
}

type driverQuerier struct {
	driver neo4j.DriverWithContext
	db     string
}

func (q *driverQuerier) Query(ctx context.Context, cypher string, params map[string]any) error {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if q.db != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(q.db))
	}
	_, err := neo4j.ExecuteQuery(ctx, q.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	return err
}

// Exporter writes builds to Neo4j.
type Exporter struct {
	q         Querier
	close     func(context.Context) error
	logger    *log.Logger
	batchSize int
}

// Connect opens a driver and verifies the server is reachable.
func Connect(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultURI
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrCodeExportFailed, err, "connect to %s", cfg.URI),
			"check --uri, --user and --password")
	}
	e := NewExporter(&driverQuerier{driver: driver, db: cfg.Database}, logger)
	e.close = driver.Close
	return e, nil
}

// NewExporter returns an exporter running queries through q. A nil logger
// discards progress messages.
func NewExporter(q Querier, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{q: q, logger: logger, batchSize: DefaultBatchSize}
}

// Close releases the driver, if the exporter owns one.
func (e *Exporter) Close(ctx context.Context) error {
	if e.close == nil {
		return nil
	}
	return e.close(ctx)
}

// Stats counts exported rows.
type Stats struct {
	Nodes         int
	Relationships int
}

// Export replaces the module's graph in the database with the types and
// edges of c, tagging every node with its group in part.
func (e *Exporter) Export(ctx context.Context, module string, c *uml.Context, part typegraph.Result) (Stats, error) {
	nodes, rels := Rows(module, c, part)

	if err := e.q.Query(ctx, createIndex, nil); err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeExportFailed, err, "create index")
	}
	if err := e.q.Query(ctx, deleteModule, map[string]any{"module": module}); err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeExportFailed, err, "clean module %s", module)
	}

	e.logger.Debug("loading type nodes", "count", len(nodes))
	if err := e.batched(ctx, mergeNodes, nodes); err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeExportFailed, err, "load type nodes")
	}

	stats := Stats{Nodes: len(nodes)}
	for _, k := range typegraph.Kinds() {
		batch := rels[k]
		if len(batch) == 0 {
			continue
		}
		e.logger.Debug("loading relationships", "kind", k, "count", len(batch))
		if err := e.batched(ctx, mergeRelationships(k), batch); err != nil {
			return stats, errors.Wrap(errors.ErrCodeExportFailed, err, "load %s relationships", k)
		}
		stats.Relationships += len(batch)
	}
	return stats, nil
}

func (e *Exporter) batched(ctx context.Context, cypher string, rows []map[string]any) error {
	for start := 0; start < len(rows); start += e.batchSize {
		end := min(start+e.batchSize, len(rows))
		if err := e.q.Query(ctx, cypher, map[string]any{"batch": rows[start:end]}); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Rows
// =============================================================================

// Key returns the node key of name within module.
func Key(module, name string) string { return module + ":" + name }

// Rows converts a build into node rows and relationship rows per kind.
func Rows(module string, c *uml.Context, part typegraph.Result) ([]map[string]any, map[typegraph.Kind][]map[string]any) {
	nodes := make([]map[string]any, 0, len(c.Blocks()))
	for _, b := range c.Blocks() {
		row := map[string]any{
			"key":       Key(module, b.Name),
			"module":    module,
			"name":      b.Name,
			"namespace": b.Type.Namespace(),
			"kind":      b.Kind().String(),
			"sealed":    b.Type.Sealed(),
			"abstract":  b.Type.Abstract(),
		}
		if g, ok := part.Find(b.Name); ok {
			row["group"] = g.Label
			row["group_id"] = g.ID.String()
		}
		nodes = append(nodes, row)
	}

	rels := make(map[typegraph.Kind][]map[string]any)
	for _, edge := range c.Graph.Edges() {
		if !c.Graph.Known(edge.From) {
			continue
		}
		rels[edge.Kind] = append(rels[edge.Kind], map[string]any{
			"from": Key(module, edge.From),
			"to":   Key(module, edge.To),
		})
	}
	return nodes, rels
}

// RelationshipType returns the Neo4j relationship type of k, such as
// COMPOSED_OF.
func RelationshipType(k typegraph.Kind) string {
	return strings.ToUpper(strings.ReplaceAll(k.Label(), " ", "_"))
}

// =============================================================================
// Cypher
// =============================================================================

const createIndex = "CREATE INDEX type_node_key IF NOT EXISTS FOR (n:TypeNode) ON (n.key)"

const deleteModule = "MATCH (n:TypeNode {module: $module}) DETACH DELETE n"

const mergeNodes = `UNWIND $batch AS row
 MERGE (n:TypeNode {key: row.key})
 SET n.module = row.module, n.name = row.name, n.namespace = row.namespace,
     n.kind = row.kind, n.sealed = row.sealed, n.abstract = row.abstract,
     n.group = row.group, n.group_id = row.group_id`

// mergeRelationships builds the query for k. Relationship types cannot be
// parameters; they come from the fixed kind table.
func mergeRelationships(k typegraph.Kind) string {
	return `UNWIND $batch AS row
 MATCH (a:TypeNode {key: row.from}), (b:TypeNode {key: row.to})
 MERGE (a)-[:` + RelationshipType(k) + `]->(b)`
}
