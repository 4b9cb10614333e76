package ews

import (
	"bytes"
	"encoding/xml"
	"text/template"
	"time"
)

// Request envelopes are built from templates; the handful of dynamic
// values are either server-generated or escaped before substitution.

var findItemTemplate = template.Must(template.New("findItem").Parse(`<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"
               xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types"
               xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages">
  <soap:Header>
    <t:RequestServerVersion Version="Exchange2013"/>
  </soap:Header>
  <soap:Body>
    <m:FindItem Traversal="Shallow">
      <m:ItemShape>
        <t:BaseShape>Default</t:BaseShape>
        <t:AdditionalProperties>
          <t:FieldURI FieldURI="item:DateTimeReceived"/>
          <t:FieldURI FieldURI="item:Importance"/>
          <t:FieldURI FieldURI="item:Preview"/>
          <t:FieldURI FieldURI="message:ToRecipients"/>
          <t:FieldURI FieldURI="message:From"/>
        </t:AdditionalProperties>
      </m:ItemShape>
      <m:IndexedPageItemView MaxEntriesReturned="{{.MaxItems}}" Offset="0" BasePoint="Beginning"/>
      <m:Restriction>
        <t:And>
          <t:IsEqualTo>
            <t:FieldURI FieldURI="message:IsRead"/>
            <t:FieldURIOrConstant><t:Constant Value="false"/></t:FieldURIOrConstant>
          </t:IsEqualTo>
          <t:IsGreaterThanOrEqualTo>
            <t:FieldURI FieldURI="item:DateTimeReceived"/>
            <t:FieldURIOrConstant><t:Constant Value="{{.Since}}"/></t:FieldURIOrConstant>
          </t:IsGreaterThanOrEqualTo>
        </t:And>
      </m:Restriction>
      <m:SortOrder>
        <t:FieldOrder Order="Descending">
          <t:FieldURI FieldURI="item:DateTimeReceived"/>
        </t:FieldOrder>
      </m:SortOrder>
      <m:ParentFolderIds>
        <t:DistinguishedFolderId Id="inbox"/>
      </m:ParentFolderIds>
    </m:FindItem>
  </soap:Body>
</soap:Envelope>`))

var updateItemTemplate = template.Must(template.New("updateItem").Parse(`<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"
               xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types"
               xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages">
  <soap:Header>
    <t:RequestServerVersion Version="Exchange2013"/>
  </soap:Header>
  <soap:Body>
    <m:UpdateItem MessageDisposition="SaveOnly" ConflictResolution="AutoResolve">
      <m:ItemChanges>{{range .IDs}}
        <t:ItemChange>
          <t:ItemId Id="{{.}}"/>
          <t:Updates>
            <t:SetItemField>
              <t:FieldURI FieldURI="message:IsRead"/>
              <t:Message>
                <t:IsRead>true</t:IsRead>
              </t:Message>
            </t:SetItemField>
          </t:Updates>
        </t:ItemChange>{{end}}
      </m:ItemChanges>
    </m:UpdateItem>
  </soap:Body>
</soap:Envelope>`))

func buildFindItemRequest(maxItems int, since time.Time) (string, error) {
	var buf bytes.Buffer
	err := findItemTemplate.Execute(&buf, struct {
		MaxItems int
		Since    string
	}{
		MaxItems: maxItems,
		Since:    since.UTC().Format(time.RFC3339),
	})
	return buf.String(), err
}

func buildUpdateItemRequest(ids []string) (string, error) {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = escapeAttr(id)
	}
	var buf bytes.Buffer
	err := updateItemTemplate.Execute(&buf, struct{ IDs []string }{IDs: escaped})
	return buf.String(), err
}

// escapeAttr xml-escapes an opaque item id for use in an attribute value
func escapeAttr(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}
	return buf.String()
}
