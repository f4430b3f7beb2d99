package cache

// Keyer builds cache keys.
type Keyer interface {
	// ModelKey returns the key of a loaded type model.
	ModelKey(input string, opts ModelKeyOpts) string

	// OverviewKey returns the key of a relationship overview rendered from
	// the DOT source with hash dotHash.
	OverviewKey(dotHash string, opts OverviewKeyOpts) string
}

// ModelKeyOpts are the load inputs that change a type model.
type ModelKeyOpts struct {
	// SourceHash covers the content of every file the loader reads.
	SourceHash        string `json:"source_hash"`
	IncludeUnexported bool   `json:"include_unexported"`
	Loader            string `json:"loader"`
}

// OverviewKeyOpts are the render inputs that change an overview.
type OverviewKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ModelKey returns "model:<sha256>".
func (DefaultKeyer) ModelKey(input string, opts ModelKeyOpts) string {
	return hashKey("model", input, opts)
}

// OverviewKey returns "overview:<sha256>".
func (DefaultKeyer) OverviewKey(dotHash string, opts OverviewKeyOpts) string {
	return hashKey("overview", dotHash, opts)
}

var _ Keyer = DefaultKeyer{}
