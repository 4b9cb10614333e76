// Package ews implements the SOAP/XML mail transport. Both retrieval and
// the bulk read-state update are single request/response exchanges; the
// update batches every change into one envelope with AutoResolve conflict
// handling, so it is atomic from the caller's perspective.
package ews

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/inbox-triage/internal/core"
	"go.uber.org/zap"
)

// Client is the SOAP implementation of core.MailTransport
type Client struct {
	httpClient *http.Client
	maxItems   int
	logger     *zap.Logger
}

// NewClient creates a new SOAP transport client
func NewClient(httpClient *http.Client, maxItems int, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		maxItems:   maxItems,
		logger:     logger,
	}
}

// FetchUnread issues one FindItem exchange filtered to unread inbox
// messages within the lookback window, sorted newest-first.
func (c *Client) FetchUnread(ctx context.Context, session core.Session, daysBack int) ([]core.Message, error) {
	since := time.Now().AddDate(0, 0, -daysBack)
	envelope, err := buildFindItemRequest(c.maxItems, since)
	if err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: err}
	}

	body, err := c.exchange(ctx, session, envelope)
	if err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: err}
	}

	var resp findItemResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, &core.TransportError{Op: "fetch unread", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	msg := resp.Body.FindItemResponse.ResponseMessages.FindItemResponseMessage
	if msg.ResponseClass != "Success" {
		return nil, &core.TransportError{
			Op:     "fetch unread",
			Status: msg.ResponseCode,
			Err:    fmt.Errorf("provider returned %s: %s", msg.ResponseClass, msg.MessageText),
		}
	}

	messages := make([]core.Message, 0, len(msg.RootFolder.Items.Message))
	for _, item := range msg.RootFolder.Items.Message {
		messages = append(messages, normalizeItem(item, session))
	}

	c.logger.Debug("Fetched unread messages",
		zap.Int("count", len(messages)),
		zap.Int("days_back", daysBack))
	return messages, nil
}

// MarkAsRead batches one change descriptor per id into a single
// UpdateItem envelope. The server either accepts or rejects the batch as
// one unit; concurrent external edits are resolved server-side by the
// AutoResolve policy rather than reported back.
func (c *Client) MarkAsRead(ctx context.Context, session core.Session, ids []string) (*core.MarkResult, error) {
	result := &core.MarkResult{}
	if len(ids) == 0 {
		return result, nil
	}

	envelope, err := buildUpdateItemRequest(ids)
	if err != nil {
		return nil, &core.TransportError{Op: "mark as read", Err: err}
	}

	body, err := c.exchange(ctx, session, envelope)
	if err != nil {
		return nil, &core.TransportError{Op: "mark as read", Err: err}
	}

	var resp updateItemResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, &core.TransportError{Op: "mark as read", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	// Response messages come back in request order, one per item change.
	responseMessages := resp.Body.UpdateItemResponse.ResponseMessages.UpdateItemResponseMessage
	for i, msg := range responseMessages {
		if i >= len(ids) {
			break
		}
		if msg.ResponseClass == "Success" {
			result.Succeeded = append(result.Succeeded, ids[i])
		} else {
			result.Failed = append(result.Failed, core.MarkFailure{
				ID:     ids[i],
				Reason: fmt.Sprintf("%s: %s", msg.ResponseCode, msg.MessageText),
			})
		}
	}
	if len(responseMessages) == 0 {
		return nil, &core.TransportError{
			Op:  "mark as read",
			Err: fmt.Errorf("provider returned no response messages for %d changes", len(ids)),
		}
	}
	return result, nil
}

// exchange posts one SOAP envelope and returns the raw response body
func (c *Client) exchange(ctx context.Context, session core.Session, envelope string) ([]byte, error) {
	endpoint := session.Credential.BaseURL
	if endpoint == "" {
		return nil, fmt.Errorf("no service endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if session.Credential.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Credential.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if fault := parseFault(body); fault != "" {
			return nil, fmt.Errorf("provider returned %s: %s", resp.Status, fault)
		}
		return nil, fmt.Errorf("provider returned %s", resp.Status)
	}
	return body, nil
}

// parseFault extracts the fault string from a SOAP fault body, if any
func parseFault(body []byte) string {
	var fault soapFault
	if err := xml.Unmarshal(body, &fault); err != nil {
		return ""
	}
	return fault.Body.Fault.FaultString
}
