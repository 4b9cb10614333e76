package graph

import (
	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/normalize"
)

// listResponse is the JSON envelope of a message collection
type listResponse struct {
	Value []wireMessage `json:"value"`
}

type wireMessage struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	From             *recipient  `json:"from"`
	ReceivedDateTime string      `json:"receivedDateTime"`
	Importance       string      `json:"importance"`
	BodyPreview      string      `json:"bodyPreview"`
	ToRecipients     []recipient `json:"toRecipients"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// normalizeMessage maps the REST wire shape into the canonical Message.
// Missing optional fields become sentinels, never errors.
func normalizeMessage(wire wireMessage, session core.Session) core.Message {
	var fromName, fromAddr string
	if wire.From != nil {
		fromName = wire.From.EmailAddress.Name
		fromAddr = wire.From.EmailAddress.Address
	}

	toAddrs := make([]string, 0, len(wire.ToRecipients))
	for _, r := range wire.ToRecipients {
		toAddrs = append(toAddrs, r.EmailAddress.Address)
	}

	return core.Message{
		ID:                wire.ID,
		Subject:           normalize.Subject(wire.Subject),
		FromDisplay:       normalize.SenderDisplay(fromName, fromAddr),
		FromAddress:       normalize.Address(fromAddr),
		ReceivedAt:        normalize.Time(wire.ReceivedDateTime),
		Importance:        parseImportance(wire.Importance),
		BodyPreview:       normalize.Preview(wire.BodyPreview, normalize.MaxPreviewBytes),
		IsDirectRecipient: normalize.IsDirectRecipient(session.UserAddress, toAddrs),
	}
}

func parseImportance(raw string) core.Importance {
	switch raw {
	case "low":
		return core.ImportanceLow
	case "high":
		return core.ImportanceHigh
	default:
		return core.ImportanceNormal
	}
}
