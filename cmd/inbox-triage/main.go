package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/inbox-triage/internal/config"
	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/di"
	"github.com/mikey/inbox-triage/internal/rules"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	service *core.TriageService,
	credentials core.CredentialProvider,
) error {
	defer logger.Sync()
	ctx := context.Background()

	credential, err := credentials.Credential(ctx)
	if err != nil {
		logger.Error("Failed to acquire credential", zap.Error(err))
		return err
	}

	session := core.Session{
		UserAddress: strings.ToLower(strings.TrimSpace(cfg.GetUserAddress())),
		Credential:  credential,
	}

	triageConfig := cfg.GetTriage()
	ruleSet := rules.Resolve(rules.Input{
		HighSenders:  triageConfig.VIPSenders,
		LowSenders:   triageConfig.LowSenders,
		HighSubjects: triageConfig.HighSubjects,
		LowSubjects:  triageConfig.LowSubjects,
		DaysBack:     triageConfig.DaysBack,
	})

	service.SetStatusFunc(func(status string) {
		fmt.Printf("... %s\n", status)
	})

	if flags.MarkOnly {
		return runMarkOnly(ctx, service, session, ruleSet)
	}
	return runTriage(ctx, service, session, ruleSet, triageConfig.DryRun)
}

func runTriage(ctx context.Context, service *core.TriageService, session core.Session, ruleSet core.RuleSet, dryRun bool) error {
	result, err := service.Run(ctx, session, ruleSet, dryRun)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Triage ===\n")
	fmt.Printf("Run: %s\n", result.RunID)
	fmt.Printf("Dry run: %t\n", result.DryRun)
	fmt.Printf("Elapsed: %v\n", result.Elapsed)

	if result.InboxClear() {
		fmt.Printf("\nInbox clear — no unread messages in the lookback window.\n")
		return nil
	}

	fmt.Printf("\n=== Needs reply (%d) ===\n", len(result.PriorityList))
	for i, msg := range result.PriorityList {
		fmt.Printf("%2d. [%3d %-4s] %s — %s\n", i+1, msg.Score, core.Badge(msg.Score), msg.Subject, msg.FromDisplay)
	}

	fmt.Printf("\n=== Low priority (%d) ===\n", len(result.LowPriorityList))
	for _, msg := range result.LowPriorityList {
		fmt.Printf("    %s — %s\n", msg.Subject, msg.FromDisplay)
	}

	if result.DryRun {
		fmt.Printf("\nWould mark %d message(s) as read (dry run, nothing changed).\n", result.MarkedCount)
	} else {
		succeeded := result.MarkedCount
		if result.Mark != nil {
			succeeded = len(result.Mark.Succeeded)
		}
		fmt.Printf("\nMarked %d of %d message(s) as read.\n", succeeded, result.MarkedCount)
		if result.Mark != nil {
			for _, failure := range result.Mark.Failed {
				fmt.Printf("  failed %s: %s\n", failure.ID, failure.Reason)
			}
		}
	}
	return nil
}

func runMarkOnly(ctx context.Context, service *core.TriageService, session core.Session, ruleSet core.RuleSet) error {
	marked, mark, err := service.MarkLowPriority(ctx, session, ruleSet)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Mark low priority ===\n")
	fmt.Printf("Marked %d of %d message(s) as read.\n", len(mark.Succeeded), marked)
	for _, failure := range mark.Failed {
		fmt.Printf("  failed %s: %s\n", failure.ID, failure.Reason)
	}
	return nil
}
