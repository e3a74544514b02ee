// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/ssargent/modelmarket/pkg/host"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/market"
)

// DefaultHostFactory opens pebble-backed hosts
type DefaultHostFactory struct{}

// NewHostFactory creates a new host factory
func NewHostFactory() HostFactory {
	return &DefaultHostFactory{}
}

// OpenHost opens the host stored under dataDir
func (f *DefaultHostFactory) OpenHost(dataDir string, rent ledger.Rent) (*host.Host, error) {
	return host.Open(dataDir, rent)
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, svc *market.Service, config ServerConfig) error {
	return StartServer(ctx, svc, config)
}
