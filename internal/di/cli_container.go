package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-triage/internal/config"
	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/factory"
	"github.com/mikey/inbox-triage/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Transport flags
	Provider string
	Endpoint string
	Token    string
	MaxItems int

	// Mailbox flags
	UserAddress string

	// Triage rule flags
	DaysBack     string
	VIPSenders   string
	LowSenders   string
	HighSubjects string
	LowSubjects  string

	// Run mode flags
	DryRun   bool
	MarkOnly bool

	// Input flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Transport flags
	flag.StringVar(&flags.Provider, "provider", "graph", "Mail transport (graph, ews)")
	flag.StringVar(&flags.Endpoint, "endpoint", "", "Provider endpoint (EWS service URL or REST base URL)")
	flag.StringVar(&flags.Token, "token", "", "Bearer token for the provider")
	flag.IntVar(&flags.MaxItems, "max-items", 50, "Maximum unread messages to retrieve")

	// Mailbox flags
	flag.StringVar(&flags.UserAddress, "user", "", "Acting user's own address, used for direct-recipient matching")

	// Triage rule flags
	flag.StringVar(&flags.DaysBack, "days-back", "7", "Lookback window in days (1-30)")
	flag.StringVar(&flags.VIPSenders, "vip", "", "Comma-separated VIP sender substrings")
	flag.StringVar(&flags.LowSenders, "mute", "", "Comma-separated muted sender substrings")
	flag.StringVar(&flags.HighSubjects, "high-subjects", "", "Comma-separated high-priority subject keywords")
	flag.StringVar(&flags.LowSubjects, "low-subjects", "", "Comma-separated low-priority subject keywords")

	// Run mode flags
	flag.BoolVar(&flags.DryRun, "dry-run", true, "Compute everything but never mark messages as read")
	flag.BoolVar(&flags.MarkOnly, "mark-only", false, "Skip ranking; mark low-priority messages as read")

	// Input flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register transport factory
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}

	// Register mail transport
	if err := container.Provide(func(f *factory.TransportFactory) (core.MailTransport, error) {
		return f.CreateTransport()
	}); err != nil {
		return nil, err
	}

	// Register credential provider
	if err := container.Provide(func(f *factory.TransportFactory) (core.CredentialProvider, error) {
		return f.CreateCredentialProvider()
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set transport provider
	v.Set("transport.provider", flags.Provider)

	switch flags.Provider {
	case "graph":
		if flags.Endpoint != "" {
			v.Set("graph.base_url", flags.Endpoint)
		}
		v.Set("graph.token", flags.Token)
	case "ews":
		v.Set("ews.endpoint", flags.Endpoint)
		v.Set("ews.token", flags.Token)
	}

	// Set mailbox and rule inputs
	v.Set("mailbox.user_address", flags.UserAddress)
	v.Set("triage.days_back", flags.DaysBack)
	v.Set("triage.max_items", flags.MaxItems)
	v.Set("triage.dry_run", flags.DryRun)
	v.Set("triage.vip_senders", flags.VIPSenders)
	v.Set("triage.low_senders", flags.LowSenders)
	v.Set("triage.high_subjects", flags.HighSubjects)
	v.Set("triage.low_subjects", flags.LowSubjects)

	return config.NewFromViper(v)
}
