package ews

import (
	"encoding/xml"

	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/normalize"
)

// Exchange Web Services schema namespaces. Response payloads qualify
// every element, so the decode structs must match the qualified names.
const (
	nsTypes    = "http://schemas.microsoft.com/exchange/services/2006/types"
	nsMessages = "http://schemas.microsoft.com/exchange/services/2006/messages"
)

type findItemResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		FindItemResponse struct {
			ResponseMessages struct {
				FindItemResponseMessage responseMessage `xml:"http://schemas.microsoft.com/exchange/services/2006/messages FindItemResponseMessage"`
			} `xml:"http://schemas.microsoft.com/exchange/services/2006/messages ResponseMessages"`
		} `xml:"http://schemas.microsoft.com/exchange/services/2006/messages FindItemResponse"`
	} `xml:"Body"`
}

type responseMessage struct {
	ResponseClass string `xml:"ResponseClass,attr"`
	ResponseCode  string `xml:"http://schemas.microsoft.com/exchange/services/2006/messages ResponseCode"`
	MessageText   string `xml:"http://schemas.microsoft.com/exchange/services/2006/messages MessageText"`
	RootFolder    struct {
		Items struct {
			Message []wireItem `xml:"http://schemas.microsoft.com/exchange/services/2006/types Message"`
		} `xml:"http://schemas.microsoft.com/exchange/services/2006/types Items"`
	} `xml:"http://schemas.microsoft.com/exchange/services/2006/messages RootFolder"`
}

type wireItem struct {
	ItemID struct {
		ID string `xml:"Id,attr"`
	} `xml:"http://schemas.microsoft.com/exchange/services/2006/types ItemId"`
	Subject          string    `xml:"http://schemas.microsoft.com/exchange/services/2006/types Subject"`
	DateTimeReceived string    `xml:"http://schemas.microsoft.com/exchange/services/2006/types DateTimeReceived"`
	Importance       string    `xml:"http://schemas.microsoft.com/exchange/services/2006/types Importance"`
	Preview          string    `xml:"http://schemas.microsoft.com/exchange/services/2006/types Preview"`
	From             mailboxes `xml:"http://schemas.microsoft.com/exchange/services/2006/types From"`
	ToRecipients     mailboxes `xml:"http://schemas.microsoft.com/exchange/services/2006/types ToRecipients"`
}

type mailboxes struct {
	Mailbox []mailbox `xml:"http://schemas.microsoft.com/exchange/services/2006/types Mailbox"`
}

type mailbox struct {
	Name         string `xml:"http://schemas.microsoft.com/exchange/services/2006/types Name"`
	EmailAddress string `xml:"http://schemas.microsoft.com/exchange/services/2006/types EmailAddress"`
}

type updateItemResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		UpdateItemResponse struct {
			ResponseMessages struct {
				UpdateItemResponseMessage []responseMessage `xml:"http://schemas.microsoft.com/exchange/services/2006/messages UpdateItemResponseMessage"`
			} `xml:"http://schemas.microsoft.com/exchange/services/2006/messages ResponseMessages"`
		} `xml:"http://schemas.microsoft.com/exchange/services/2006/messages UpdateItemResponse"`
	} `xml:"Body"`
}

type soapFault struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault struct {
			FaultString string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

// normalizeItem maps the SOAP wire shape into the canonical Message.
// Missing optional sub-elements become sentinels, never errors.
func normalizeItem(item wireItem, session core.Session) core.Message {
	var fromName, fromAddr string
	if len(item.From.Mailbox) > 0 {
		fromName = item.From.Mailbox[0].Name
		fromAddr = item.From.Mailbox[0].EmailAddress
	}

	toAddrs := make([]string, 0, len(item.ToRecipients.Mailbox))
	for _, mb := range item.ToRecipients.Mailbox {
		toAddrs = append(toAddrs, mb.EmailAddress)
	}

	return core.Message{
		ID:                item.ItemID.ID,
		Subject:           normalize.Subject(item.Subject),
		FromDisplay:       normalize.SenderDisplay(fromName, fromAddr),
		FromAddress:       normalize.Address(fromAddr),
		ReceivedAt:        normalize.Time(item.DateTimeReceived),
		Importance:        parseImportance(item.Importance),
		BodyPreview:       normalize.Preview(item.Preview, normalize.MaxPreviewBytes),
		IsDirectRecipient: normalize.IsDirectRecipient(session.UserAddress, toAddrs),
	}
}

func parseImportance(raw string) core.Importance {
	switch raw {
	case "Low":
		return core.ImportanceLow
	case "High":
		return core.ImportanceHigh
	default:
		return core.ImportanceNormal
	}
}
