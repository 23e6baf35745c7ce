package framepilot

import (
	"github.com/aretw0/framepilot/pkg/registry"
)

// Version is the library version, reported by the CLI and the MCP server.
const Version = "0.1.0"

// New creates a session registry with the given options. It is the
// high-level entry point for embedding the engine as a library; see
// pkg/registry for the full option set.
func New(opts ...registry.Option) *registry.Registry {
	return registry.New(opts...)
}
