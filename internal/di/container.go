package di

import (
	"go.uber.org/dig"

	"github.com/mikey/inbox-triage/internal/config"
	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/factory"
	"github.com/mikey/inbox-triage/internal/logging"
	"github.com/mikey/inbox-triage/internal/monitoring"
	"github.com/mikey/inbox-triage/internal/server"
)

// BuildContainer creates and configures a dependency injection container
// for the triage server.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register transport factory
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}

	// Register mail transport
	if err := container.Provide(func(f *factory.TransportFactory) (core.MailTransport, error) {
		return f.CreateTransport()
	}); err != nil {
		return nil, err
	}

	// Register credential provider
	if err := container.Provide(func(f *factory.TransportFactory) (core.CredentialProvider, error) {
		return f.CreateCredentialProvider()
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(monitoring.NewMetrics); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(server.New); err != nil {
		return nil, err
	}

	return container, nil
}
