package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusFunc receives human-readable progress strings during a run
type StatusFunc func(status string)

// TriageService drives a triage run: fetch, score, partition and
// optionally mark the low-priority messages as read. Pipeline stages are
// strictly sequential; any transport failure aborts the run and discards
// partial results.
type TriageService struct {
	transport MailTransport
	logger    *zap.Logger
	status    StatusFunc
}

// NewTriageService creates a new triage service
func NewTriageService(transport MailTransport, logger *zap.Logger) *TriageService {
	return &TriageService{
		transport: transport,
		logger:    logger,
	}
}

// SetStatusFunc installs an optional progress callback
func (s *TriageService) SetStatusFunc(fn StatusFunc) {
	s.status = fn
}

func (s *TriageService) notify(status string) {
	if s.status != nil {
		s.status(status)
	}
}

// Run executes one full triage pass. When dryRun is true the mutating
// transport call is never issued; everything else is computed identically
// to a live run.
func (s *TriageService) Run(ctx context.Context, session Session, rules RuleSet, dryRun bool) (*TriageResult, error) {
	result := &TriageResult{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}

	s.notify("Fetching unread messages...")
	s.logger.Info("Fetching unread messages",
		zap.String("run_id", result.RunID),
		zap.Int("days_back", rules.DaysBack),
		zap.Bool("dry_run", dryRun))

	messages, err := s.transport.FetchUnread(ctx, session, rules.DaysBack)
	if err != nil {
		s.logger.Error("Fetch failed", zap.String("run_id", result.RunID), zap.Error(err))
		return nil, err
	}

	if len(messages) == 0 {
		s.notify("Inbox clear, nothing to triage")
		s.logger.Info("Inbox clear", zap.String("run_id", result.RunID))
		result.Elapsed = time.Since(result.StartedAt)
		return result, nil
	}

	s.notify("Scoring messages...")
	result.PriorityList, result.LowPriorityList = s.partition(messages, rules)
	s.logger.Info("Scoring complete",
		zap.String("run_id", result.RunID),
		zap.Int("fetched", len(messages)),
		zap.Int("priority", len(result.PriorityList)),
		zap.Int("low_priority", len(result.LowPriorityList)))

	if !dryRun && len(result.LowPriorityList) > 0 {
		s.notify("Marking low-priority messages as read...")
		ids := messageIDs(result.LowPriorityList)
		mark, err := s.transport.MarkAsRead(ctx, session, ids)
		if err != nil {
			s.logger.Error("Mark as read failed", zap.String("run_id", result.RunID), zap.Error(err))
			return nil, err
		}
		result.Mark = mark
		result.MarkedCount = len(ids)
		if len(mark.Failed) > 0 {
			s.logger.Warn("Some messages could not be marked",
				zap.String("run_id", result.RunID),
				zap.Int("attempted", len(ids)),
				zap.Int("failed", len(mark.Failed)))
		}
	} else {
		// A dry run reports the would-be count without mutating anything.
		result.MarkedCount = len(result.LowPriorityList)
	}

	result.Elapsed = time.Since(result.StartedAt)
	s.notify("Done")
	return result, nil
}

// MarkLowPriority is the mark-only mode: fetch, filter to low-priority via
// the classifier alone and mark unconditionally. No ranked list is built.
func (s *TriageService) MarkLowPriority(ctx context.Context, session Session, rules RuleSet) (int, *MarkResult, error) {
	runID := uuid.NewString()

	s.notify("Fetching unread messages...")
	messages, err := s.transport.FetchUnread(ctx, session, rules.DaysBack)
	if err != nil {
		s.logger.Error("Fetch failed", zap.String("run_id", runID), zap.Error(err))
		return 0, nil, err
	}

	var ids []string
	for _, msg := range messages {
		if IsLowPriority(msg, rules) {
			ids = append(ids, msg.ID)
		}
	}

	if len(ids) == 0 {
		s.notify("No low-priority messages found")
		return 0, &MarkResult{}, nil
	}

	s.notify("Marking low-priority messages as read...")
	mark, err := s.transport.MarkAsRead(ctx, session, ids)
	if err != nil {
		s.logger.Error("Mark as read failed", zap.String("run_id", runID), zap.Error(err))
		return 0, nil, err
	}

	s.logger.Info("Mark-only run complete",
		zap.String("run_id", runID),
		zap.Int("fetched", len(messages)),
		zap.Int("marked", len(ids)),
		zap.Int("failed", len(mark.Failed)))
	s.notify("Done")
	return len(ids), mark, nil
}

// partition scores every message and splits it into the ranked priority
// list and the low-priority list. The priority list is sorted by score
// descending with retrieval order breaking ties; the low-priority list
// keeps retrieval order.
func (s *TriageService) partition(messages []Message, rules RuleSet) (priority, lowPriority []ScoredMessage) {
	now := time.Now()
	for _, msg := range messages {
		scored := ScoredMessage{
			Message:     msg,
			Score:       ScoreAt(msg, rules, now),
			LowPriority: IsLowPriority(msg, rules),
		}
		if scored.LowPriority {
			lowPriority = append(lowPriority, scored)
		} else {
			priority = append(priority, scored)
		}
	}
	sort.SliceStable(priority, func(i, j int) bool {
		return priority[i].Score > priority[j].Score
	})
	return priority, lowPriority
}

func messageIDs(msgs []ScoredMessage) []string {
	ids := make([]string, len(msgs))
	for i, msg := range msgs {
		ids[i] = msg.ID
	}
	return ids
}
