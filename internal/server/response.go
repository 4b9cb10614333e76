package server

import (
	"strings"
	"time"

	"github.com/mikey/inbox-triage/internal/core"
)

type scoredMessageDTO struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	From        string `json:"from"`
	FromAddress string `json:"from_address"`
	ReceivedAt  string `json:"received_at,omitempty"`
	Importance  string `json:"importance"`
	Direct      bool   `json:"direct_recipient"`
	Score       int    `json:"score"`
	Badge       string `json:"badge,omitempty"`
}

type triageResponse struct {
	RunID           string             `json:"run_id"`
	DryRun          bool               `json:"dry_run"`
	InboxClear      bool               `json:"inbox_clear"`
	PriorityList    []scoredMessageDTO `json:"priority_list"`
	LowPriorityList []scoredMessageDTO `json:"low_priority_list"`
	MarkedCount     int                `json:"marked_count"`
	MarkFailed      []core.MarkFailure `json:"mark_failed,omitempty"`
	ElapsedMs       int64              `json:"elapsed_ms"`
}

func toTriageResponse(result *core.TriageResult) triageResponse {
	resp := triageResponse{
		RunID:           result.RunID,
		DryRun:          result.DryRun,
		InboxClear:      result.InboxClear(),
		PriorityList:    make([]scoredMessageDTO, 0, len(result.PriorityList)),
		LowPriorityList: make([]scoredMessageDTO, 0, len(result.LowPriorityList)),
		MarkedCount:     result.MarkedCount,
		ElapsedMs:       result.Elapsed.Milliseconds(),
	}
	for _, msg := range result.PriorityList {
		dto := toMessageDTO(msg)
		dto.Badge = core.Badge(msg.Score)
		resp.PriorityList = append(resp.PriorityList, dto)
	}
	for _, msg := range result.LowPriorityList {
		resp.LowPriorityList = append(resp.LowPriorityList, toMessageDTO(msg))
	}
	if result.Mark != nil {
		resp.MarkFailed = result.Mark.Failed
	}
	return resp
}

func toMessageDTO(msg core.ScoredMessage) scoredMessageDTO {
	dto := scoredMessageDTO{
		ID:          msg.ID,
		Subject:     msg.Subject,
		From:        msg.FromDisplay,
		FromAddress: msg.FromAddress,
		Importance:  msg.Importance.String(),
		Direct:      msg.IsDirectRecipient,
		Score:       msg.Score,
	}
	if !msg.ReceivedAt.IsZero() {
		dto.ReceivedAt = msg.ReceivedAt.Format(time.RFC3339)
	}
	return dto
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
