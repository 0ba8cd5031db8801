package config

import (
	"context"

	"github.com/specialistvlad/labprotocol/internal/protocol"
)

// Loader is the interface for a format-specific protocol source loader.
type Loader interface {
	// Load reads every source found under paths and assembles a single
	// protocol from them.
	Load(ctx context.Context, paths ...string) (*protocol.Protocol, error)
}
