package factory

import (
	"fmt"

	"github.com/mikey/inbox-triage/internal/adapters/ews"
	"github.com/mikey/inbox-triage/internal/adapters/graph"
	"github.com/mikey/inbox-triage/internal/auth"
	"github.com/mikey/inbox-triage/internal/config"
	"github.com/mikey/inbox-triage/internal/core"
	"go.uber.org/zap"
)

// TransportFactory creates mail transports
type TransportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(cfg *config.Config, logger *zap.Logger) *TransportFactory {
	return &TransportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTransport creates a mail transport based on the configuration.
// The choice of backend is a deployment-time decision; everything above
// the core.MailTransport port is unaware of it.
func (f *TransportFactory) CreateTransport() (core.MailTransport, error) {
	transportConfig := f.cfg.GetTransport()

	switch transportConfig.Provider {
	case "graph":
		graphConfig := f.cfg.GetGraph()
		return graph.NewClient(nil, f.cfg.GetTriage().MaxItems, graphConfig.MarkConcurrency, f.logger), nil
	case "ews":
		return ews.NewClient(nil, f.cfg.GetTriage().MaxItems, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported transport provider: %s", transportConfig.Provider)
	}
}

// CreateCredentialProvider creates the credential provider matching the
// configured transport.
func (f *TransportFactory) CreateCredentialProvider() (core.CredentialProvider, error) {
	transportConfig := f.cfg.GetTransport()

	switch transportConfig.Provider {
	case "graph":
		graphConfig := f.cfg.GetGraph()
		if graphConfig.ClientID != "" && graphConfig.TokenURL != "" {
			return auth.NewClientCredentialsProvider(
				graphConfig.ClientID,
				graphConfig.ClientSecret,
				graphConfig.TokenURL,
				graphConfig.Scopes,
				graphConfig.BaseURL,
				f.logger,
			), nil
		}
		return auth.NewStaticProvider(graphConfig.Token, graphConfig.BaseURL), nil
	case "ews":
		ewsConfig := f.cfg.GetEWS()
		if ewsConfig.Endpoint == "" {
			return nil, fmt.Errorf("ews endpoint is required")
		}
		return auth.NewStaticProvider(ewsConfig.Token, ewsConfig.Endpoint), nil
	default:
		return nil, fmt.Errorf("unsupported transport provider: %s", transportConfig.Provider)
	}
}
