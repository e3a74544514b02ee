// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/modelmarket/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	hostFactory   api.HostFactory
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		hostFactory:   api.NewHostFactory(),
		serverFactory: api.NewServerFactory(),
	}
}

// GetHostFactory returns the host factory
func (c *Container) GetHostFactory() api.HostFactory {
	return c.hostFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetHostFactory allows overriding the host factory (for testing)
func (c *Container) SetHostFactory(factory api.HostFactory) {
	c.hostFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
