package core

import (
	"context"
)

// MailTransport defines the interface for talking to a mail provider.
// Implementations normalize their wire formats into Message before
// returning, so callers hold no knowledge of which backend is active.
type MailTransport interface {
	// FetchUnread retrieves unread inbox messages received within the last
	// daysBack days, newest first, bounded by the transport's page size.
	FetchUnread(ctx context.Context, session Session, daysBack int) ([]Message, error)

	// MarkAsRead flags the given message ids as read. Empty ids is a no-op
	// success. The call is best-effort bulk mutation: individual failures
	// are reported in MarkResult rather than aborting the batch.
	MarkAsRead(ctx context.Context, session Session, ids []string) (*MarkResult, error)
}

// CredentialProvider yields a credential for the mail provider
type CredentialProvider interface {
	Credential(ctx context.Context) (Credential, error)
}
