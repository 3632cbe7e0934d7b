package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	force  bool
	mcp    bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithForce makes the initial sync reprocess every source file, ignoring
// content-hash cache hits.
func WithForce(force bool) Option {
	return func(a *application) {
		a.force = force
	}
}

// WithMCP runs the MCP stdio server instead of the HTTP server and watcher.
func WithMCP(mcp bool) Option {
	return func(a *application) {
		a.mcp = mcp
	}
}
