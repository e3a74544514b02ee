// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/ssargent/modelmarket/pkg/host"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/market"
)

// HostFactory opens hosts over a data directory
type HostFactory interface {
	// OpenHost opens the host stored under dataDir
	OpenHost(dataDir string, rent ledger.Rent) (*host.Host, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is canceled
	StartServer(ctx context.Context, svc *market.Service, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
