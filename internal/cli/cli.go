package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/buildinfo"
	"github.com/pcleckler/UmlConversion/pkg/cache"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/observability"
	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "umlconv"

	// redisPrefix scopes the keys umlconv owns in a shared Redis database.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "umlconv draws class diagrams of Go packages",
		Long: `umlconv turns the types of a Go package, or a JSON/YAML type model, into
PlantUML class diagrams: one document with every type plus one per group of
related types.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := observability.NewLogHooks(c.Logger)
			observability.Register(observability.Hooks{Pipeline: hooks, Cache: hooks})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid arguments"))
	})

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ReportError writes err to w: the user message and any hints, or the full
// error with its stack trace when verbose.
func ReportError(w io.Writer, err error, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "%s %+v\n", styleIconError.Render(iconError), err)
		return
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(w, "  "+StyleDim.Render("hint: "+hint))
	}
}

// usageError prints cmd's usage and returns err.
func usageError(cmd *cobra.Command, err error) error {
	_ = cmd.Usage()
	return err
}

// requireInput is a cobra.PositionalArgs that demands exactly one input.
func requireInput(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError(cmd, errors.New(errors.ErrCodeInvalidInput, "expected one input, got %d", len(args)))
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Scope+":")
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if cfg.TTL > 0 {
		r.TTL = cfg.TTL
	}
	return r, nil
}

// newCache opens the configured backend. An unreachable Redis falls back to
// no caching rather than failing the run.
func (c *CLI) newCache(ctx context.Context, cfg pipeline.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == pipeline.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == pipeline.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewUnavailableCache(cfg.Backend), nil
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewUnavailableCache(cfg.Backend), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/umlconv/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags holds the flags shared by every command that runs the
// pipeline.
type pipelineFlags struct {
	config            string
	noCache           bool
	refresh           bool
	maxTypesPerPage   int
	timestamp         bool
	out               string
	includeUnexported bool
	strict            bool
	edgeLabels        bool
	overview          string
	dot               bool
	svg               bool
}

// register adds the shared flags to cmd.
func (f *pipelineFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "config file (default: umlconv.toml or umlconv.yaml beside the input)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the type model cache")
	fs.BoolVar(&f.refresh, "refresh", false, "reload the input even when a cached model exists")
	fs.IntVar(&f.maxTypesPerPage, "max-types-per-page", pipeline.DefaultMaxTypesPerPage, "type blocks per diagram page")
	fs.BoolVar(&f.timestamp, "timestamp", false, "add a generation timestamp footer")
	fs.StringVarP(&f.out, "out", "o", "", "output directory (default: UML beside the input)")
	fs.BoolVar(&f.includeUnexported, "include-unexported", false, "diagram unexported Go types too")
	fs.BoolVar(&f.strict, "strict", false, "fail on cyclic generic definitions")
	fs.BoolVar(&f.edgeLabels, "edge-labels", false, "label overview edges with their relationship")
	fs.StringVar(&f.overview, "overview", "", "overview format(s): dot, svg, png, pdf (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("overview", completeOverviewFormats)
	fs.BoolVar(&f.dot, "dot", false, "write the group overview as Graphviz DOT")
	fs.BoolVar(&f.svg, "svg", false, "write the group overview as SVG")
}

// options builds pipeline options for input: config file values first,
// then every flag the user set explicitly.
func (f *pipelineFlags) options(cmd *cobra.Command, input string) (pipeline.Options, pipeline.Config, error) {
	path := f.config
	if path == "" {
		path = pipeline.FindConfig(input)
	}
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return pipeline.Options{}, cfg, err
	}
	if cfg.Path != "" {
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", cfg.Path)
	}

	opts := pipeline.Options{Input: input}
	cfg.Apply(&opts)

	fs := cmd.Flags()
	if fs.Changed("max-types-per-page") {
		if err := errors.ValidateMaxTypesPerPage(f.maxTypesPerPage); err != nil {
			return opts, cfg, usageError(cmd, err)
		}
		opts.MaxTypesPerPage = f.maxTypesPerPage
	}
	if fs.Changed("timestamp") {
		opts.TimestampFooter = f.timestamp
	}
	if fs.Changed("out") {
		opts.OutputDir = f.out
	}
	if fs.Changed("include-unexported") {
		opts.IncludeUnexported = f.includeUnexported
	}
	if fs.Changed("strict") {
		opts.Strict = f.strict
	}
	if fs.Changed("edge-labels") {
		opts.EdgeLabels = f.edgeLabels
	}
	opts.Refresh = f.refresh

	if formats := f.overviewFormats(); len(formats) > 0 {
		if err := pipeline.ValidateFormats(formats); err != nil {
			return opts, cfg, usageError(cmd, err)
		}
		opts.Overview = formats
	}
	return opts, cfg, nil
}

// overviewFormats merges --overview with the --dot and --svg shortcuts.
func (f *pipelineFlags) overviewFormats() []string {
	formats := parseFormats(f.overview)
	if f.dot {
		formats = append(formats, pipeline.FormatDOT)
	}
	if f.svg {
		formats = append(formats, pipeline.FormatSVG)
	}
	return dedupe(formats)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := ss[:0]
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
