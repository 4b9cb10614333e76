// Package auth provides credential providers for the mail transports.
package auth

import (
	"context"
	"fmt"

	"github.com/mikey/inbox-triage/internal/core"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// StaticProvider returns a pre-acquired token and endpoint verbatim
type StaticProvider struct {
	credential core.Credential
}

// NewStaticProvider creates a provider around a fixed credential
func NewStaticProvider(token, baseURL string) *StaticProvider {
	return &StaticProvider{credential: core.Credential{Token: token, BaseURL: baseURL}}
}

// Credential returns the configured credential
func (p *StaticProvider) Credential(ctx context.Context) (core.Credential, error) {
	if p.credential.Token == "" && p.credential.BaseURL == "" {
		return core.Credential{}, &core.AuthError{
			Op:  "static credential",
			Err: fmt.Errorf("no token or endpoint configured"),
		}
	}
	return p.credential, nil
}

// ClientCredentialsProvider acquires a bearer token via the OAuth2
// client-credentials grant on every call; the underlying token source
// caches and refreshes internally.
type ClientCredentialsProvider struct {
	config  *clientcredentials.Config
	baseURL string
	logger  *zap.Logger
}

// NewClientCredentialsProvider creates an OAuth2 client-credentials provider
func NewClientCredentialsProvider(clientID, clientSecret, tokenURL string, scopes []string, baseURL string, logger *zap.Logger) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Credential exchanges the client credentials for a bearer token
func (p *ClientCredentialsProvider) Credential(ctx context.Context) (core.Credential, error) {
	token, err := p.config.Token(ctx)
	if err != nil {
		return core.Credential{}, &core.AuthError{Op: "token acquisition", Err: err}
	}
	p.logger.Debug("Acquired bearer token", zap.Time("expiry", token.Expiry))
	return core.Credential{Token: token.AccessToken, BaseURL: p.baseURL}, nil
}
