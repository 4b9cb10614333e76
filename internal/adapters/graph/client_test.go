package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-triage/internal/core"
)

const fetchPayload = `{
  "value": [
    {
      "id": "AAMk-1",
      "subject": "Action Required: budget",
      "from": {"emailAddress": {"name": "The CEO", "address": "CEO@Company.com"}},
      "receivedDateTime": "2026-03-10T09:30:00Z",
      "importance": "high",
      "bodyPreview": "please reply today",
      "toRecipients": [
        {"emailAddress": {"name": "Me", "address": "me@company.com"}},
        {"emailAddress": {"name": "Other", "address": "other@company.com"}}
      ]
    },
    {
      "id": "AAMk-2",
      "importance": "normal",
      "receivedDateTime": "not-a-date"
    }
  ]
}`

func testSession(baseURL string) core.Session {
	return core.Session{
		UserAddress: "me@company.com",
		Credential:  core.Credential{Token: "tok-123", BaseURL: baseURL},
	}
}

func TestFetchUnread(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/me/messages", r.URL.Path)
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fetchPayload))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), 50, 2, zap.NewNop())
	messages, err := client.FetchUnread(context.Background(), testSession(ts.URL), 7)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, []string{"receivedDateTime desc"}, gotQuery["$orderby"])
	assert.Equal(t, []string{"50"}, gotQuery["$top"])
	require.Len(t, gotQuery["$filter"], 1)
	assert.Contains(t, gotQuery["$filter"][0], "isRead eq false")
	assert.Contains(t, gotQuery["$filter"][0], "receivedDateTime ge ")

	require.Len(t, messages, 2)

	first := messages[0]
	assert.Equal(t, "AAMk-1", first.ID)
	assert.Equal(t, "Action Required: budget", first.Subject)
	assert.Equal(t, "The CEO <CEO@Company.com>", first.FromDisplay)
	assert.Equal(t, "ceo@company.com", first.FromAddress)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), first.ReceivedAt)
	assert.Equal(t, core.ImportanceHigh, first.Importance)
	assert.True(t, first.IsDirectRecipient)

	// Sparse wire records come through with sentinels, not errors.
	second := messages[1]
	assert.Equal(t, "(no subject)", second.Subject)
	assert.Empty(t, second.FromAddress)
	assert.True(t, second.ReceivedAt.IsZero())
	assert.Equal(t, core.ImportanceNormal, second.Importance)
	assert.False(t, second.IsDirectRecipient)
}

func TestFetchUnreadProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), 50, 2, zap.NewNop())
	messages, err := client.FetchUnread(context.Background(), testSession(ts.URL), 7)

	assert.Nil(t, messages)
	require.Error(t, err)
	assert.True(t, core.IsTransportError(err))
	assert.Contains(t, err.Error(), "401")
}

func TestMarkAsReadEmptyIsNoOp(t *testing.T) {
	client := NewClient(nil, 50, 2, zap.NewNop())
	result, err := client.MarkAsRead(context.Background(), testSession("http://unused.invalid"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempted())
}

func TestMarkAsReadIssuesOnePatchPerID(t *testing.T) {
	var mu sync.Mutex
	var patched []string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["isRead"])

		mu.Lock()
		patched = append(patched, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), 50, 3, zap.NewNop())
	ids := []string{"id-1", "id-2", "id-3"}
	result, err := client.MarkAsRead(context.Background(), testSession(ts.URL), ids)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Len(t, patched, 3)
}

func TestMarkAsReadFireAndContinue(t *testing.T) {
	// One id fails; the rest must still be attempted and succeed.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/me/messages/id-2" {
			w.WriteHeader(http.StatusGone)
			w.Write([]byte(`{"error":{"code":"ErrorItemNotFound"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), 50, 2, zap.NewNop())
	ids := []string{"id-1", "id-2", "id-3"}
	result, err := client.MarkAsRead(context.Background(), testSession(ts.URL), ids)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id-1", "id-3"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "id-2", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Reason, "410")
	assert.Equal(t, 3, result.Attempted())
}
