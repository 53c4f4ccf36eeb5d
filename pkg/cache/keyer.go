package cache

// Keyer builds cache keys for rendered artifacts.
type Keyer interface {
	// RenderKey returns the key for graphHash rendered with opts.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds every input besides the graph that affects rendered
// output.
type RenderKeyOpts struct {
	Format           string   `json:"format"`
	ShowExports      bool     `json:"show_exports"`
	ShowServices     bool     `json:"show_services"`
	MaxServiceLength int      `json:"max_service_length"`
	Title            string   `json:"title"`
	ShowCounts       bool     `json:"show_counts"`
	Infrastructure   []string `json:"infrastructure"`
	Domain           []string `json:"domain"`
}

// DefaultKeyer hashes the graph hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
