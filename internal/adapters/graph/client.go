// Package graph implements the REST/JSON mail transport. Unread messages
// are fetched with an OData filter and marked read with one PATCH per id.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/inbox-triage/internal/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is used when the session credential carries no endpoint
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	selectFields = "id,subject,from,receivedDateTime,importance,bodyPreview,toRecipients"
)

// Client is the REST implementation of core.MailTransport
type Client struct {
	httpClient      *http.Client
	maxItems        int
	markConcurrency int
	logger          *zap.Logger
}

// NewClient creates a new REST transport client
func NewClient(httpClient *http.Client, maxItems, markConcurrency int, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if markConcurrency <= 0 {
		markConcurrency = 4
	}
	return &Client{
		httpClient:      httpClient,
		maxItems:        maxItems,
		markConcurrency: markConcurrency,
		logger:          logger,
	}
}

func (c *Client) baseURL(session core.Session) string {
	if session.Credential.BaseURL != "" {
		return strings.TrimRight(session.Credential.BaseURL, "/")
	}
	return DefaultBaseURL
}

// FetchUnread retrieves unread inbox messages received within the last
// daysBack days, newest first.
func (c *Client) FetchUnread(ctx context.Context, session core.Session, daysBack int) ([]core.Message, error) {
	since := time.Now().UTC().AddDate(0, 0, -daysBack).Format(time.RFC3339)

	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("isRead eq false and receivedDateTime ge %s", since))
	query.Set("$orderby", "receivedDateTime desc")
	query.Set("$top", strconv.Itoa(c.maxItems))
	query.Set("$select", selectFields)

	endpoint := c.baseURL(session) + "/me/messages?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+session.Credential.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.TransportError{
			Op:     "fetch unread",
			Status: resp.Status,
			Err:    fmt.Errorf("provider returned %s: %s", resp.Status, readErrorBody(resp.Body)),
		}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	messages := make([]core.Message, 0, len(list.Value))
	for _, wire := range list.Value {
		messages = append(messages, normalizeMessage(wire, session))
	}

	c.logger.Debug("Fetched unread messages",
		zap.Int("count", len(messages)),
		zap.Int("days_back", daysBack))
	return messages, nil
}

// MarkAsRead issues one PATCH per id concurrently and waits for all of
// them to settle. Individual failures are recorded, not propagated: the
// contract is best-effort bulk mutation, not all-or-nothing.
func (c *Client) MarkAsRead(ctx context.Context, session core.Session, ids []string) (*core.MarkResult, error) {
	result := &core.MarkResult{}
	if len(ids) == 0 {
		return result, nil
	}

	failures := make([]string, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.markConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := c.markOne(ctx, session, id); err != nil {
				failures[i] = err.Error()
				c.logger.Warn("Failed to mark message as read",
					zap.String("message_id", id),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		if failures[i] == "" {
			result.Succeeded = append(result.Succeeded, id)
		} else {
			result.Failed = append(result.Failed, core.MarkFailure{ID: id, Reason: failures[i]})
		}
	}
	return result, nil
}

func (c *Client) markOne(ctx context.Context, session core.Session, id string) error {
	endpoint := c.baseURL(session) + "/me/messages/" + url.PathEscape(id)
	body := bytes.NewReader([]byte(`{"isRead":true}`))

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+session.Credential.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned %s: %s", resp.Status, readErrorBody(resp.Body))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// readErrorBody returns a bounded excerpt of an error response body
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1024))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
