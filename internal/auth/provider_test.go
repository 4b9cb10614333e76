package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-triage/internal/core"
)

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("tok", "https://mail.example.com/api")
	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", cred.Token)
	assert.Equal(t, "https://mail.example.com/api", cred.BaseURL)
}

func TestStaticProviderEndpointOnly(t *testing.T) {
	// Endpoint without a token is a valid setup for unauthenticated
	// on-prem services.
	p := NewStaticProvider("", "https://exchange.internal/ews")
	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cred.Token)
	assert.Equal(t, "https://exchange.internal/ews", cred.BaseURL)
}

func TestStaticProviderEmpty(t *testing.T) {
	p := NewStaticProvider("", "")
	_, err := p.Credential(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsAuthError(err))
}

func TestClientCredentialsProvider(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"issued-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer ts.Close()

	p := NewClientCredentialsProvider("app-id", "app-secret", ts.URL, []string{"mail.read"}, "https://graph.example.com/v1.0", zap.NewNop())
	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-token", cred.Token)
	assert.Equal(t, "https://graph.example.com/v1.0", cred.BaseURL)
}

func TestClientCredentialsProviderFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer ts.Close()

	p := NewClientCredentialsProvider("app-id", "wrong-secret", ts.URL, nil, "", zap.NewNop())
	_, err := p.Credential(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsAuthError(err))
}
