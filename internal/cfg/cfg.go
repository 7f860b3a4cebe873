package cfg

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Drafting providers accepted by -drafting-provider.
const (
	ProviderAuto       = "auto"
	ProviderClaude     = "claude"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

var providers = []string{ProviderAuto, ProviderClaude, ProviderOpenRouter, ProviderNone}

// Config adds app-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds           int
	ShutdownBudgetSeconds  int
	APIPort                int
	CorpusFile             string
	DatabaseURL            string
	CorpusTable            string
	CorpusLimit            int
	CorpusResolvedOnly     bool
	DraftingProvider       string
	DraftingTimeoutSeconds int
	ClaudeAPIKey           string
	ClaudeModel            string
	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	SlackWebhookURL        string
	AdminToken             string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.CorpusFile, "corpus-file", "", "YAML corpus bundle (empty = embedded default)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL for retraining from labeled complaints (empty = corpus file)")
	fs.StringVar(&c.CorpusTable, "corpus-table", "complaints", "table holding labeled complaints")
	fs.IntVar(&c.CorpusLimit, "corpus-limit", 0, "max complaints read per retrain (0 = all)")
	fs.BoolVar(&c.CorpusResolvedOnly, "corpus-resolved-only", false, "retrain only from complaints with status Resolved")
	fs.StringVar(&c.DraftingProvider, "drafting-provider", ProviderAuto, "generative drafting provider (auto|claude|openrouter|none)")
	fs.IntVar(&c.DraftingTimeoutSeconds, "drafting-timeout-seconds", 30, "timeout for one drafting call (1..300)")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for the Claude drafting provider")
	fs.StringVar(&c.ClaudeModel, "claude-model", "claude-sonnet-4-20250514", "Claude model to use")
	fs.StringVar(&c.OpenRouterAPIKey, "openrouter-api-key", "", "API key for the OpenRouter drafting provider")
	fs.StringVar(&c.OpenRouterModel, "openrouter-model", "google/gemini-2.0-flash-lite-preview-02-05:free", "OpenRouter model to use")
	fs.StringVar(&c.OpenRouterBaseURL, "openrouter-base-url", "https://openrouter.ai/api/v1", "OpenRouter API base URL")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for High-priority escalations")
	fs.StringVar(&c.AdminToken, "admin-token", "", "bearer token for admin routes (empty = admin routes disabled)")
}

// Drafter resolves the configured provider to the one that will be used.
// "auto" prefers Claude, then OpenRouter, then none, by available keys.
func (c *Config) Drafter() string {
	if c.DraftingProvider != ProviderAuto {
		return c.DraftingProvider
	}
	switch {
	case c.ClaudeAPIKey != "":
		return ProviderClaude
	case c.OpenRouterAPIKey != "":
		return ProviderOpenRouter
	default:
		return ProviderNone
	}
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	if c.DatabaseURL != "" && strings.TrimSpace(c.CorpusTable) == "" {
		errs = append(errs, errors.New("CORPUS_TABLE is required with DATABASE_URL"))
	}
	if c.CorpusLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid CORPUS_LIMIT %d (must be >= 0)", c.CorpusLimit))
	}

	if c.DraftingTimeoutSeconds <= 0 || c.DraftingTimeoutSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAFTING_TIMEOUT_SECONDS %d (must be 1..300)", c.DraftingTimeoutSeconds))
	}

	// An explicitly chosen provider must be usable
	switch c.DraftingProvider {
	case ProviderClaude:
		if c.ClaudeAPIKey == "" {
			errs = append(errs, errors.New("CLAUDE_API_KEY is required for DRAFTING_PROVIDER=claude"))
		}
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			errs = append(errs, errors.New("OPENROUTER_API_KEY is required for DRAFTING_PROVIDER=openrouter"))
		}
	case ProviderAuto, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("invalid DRAFTING_PROVIDER %q (must be one of %s)", c.DraftingProvider, strings.Join(providers, "|")))
	}

	switch c.Drafter() {
	case ProviderClaude:
		if c.ClaudeModel == "" {
			errs = append(errs, errors.New("CLAUDE_MODEL is required"))
		}
	case ProviderOpenRouter:
		if c.OpenRouterModel == "" {
			errs = append(errs, errors.New("OPENROUTER_MODEL is required"))
		}
		if c.OpenRouterBaseURL == "" {
			errs = append(errs, errors.New("OPENROUTER_BASE_URL is required"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
