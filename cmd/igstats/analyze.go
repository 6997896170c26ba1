package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"igstats/internal/pool"
	"igstats/pkg/analyzer"
	"igstats/pkg/auth"
	"igstats/pkg/config"
	"igstats/pkg/instagram"
	"igstats/pkg/logger"
	"igstats/pkg/report"
)

var (
	// Analyze command flags
	outputDir   string
	maxPosts    int
	topN        int
	formats     []string
	workers     int
	accountName string
	sessionID   string
	csrfToken   string
	rateLimit   int
	noConsole   bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <username>...",
	Short: "Analyze one or more Instagram profiles",
	Long: `Fetch a profile and its recent posts, compute engagement analytics,
and write a report.

This command requires valid Instagram credentials configured through:
  - Stored credentials (use 'igstats auth login' to store)
  - Environment variables (IGSTATS_SESSION_ID and IGSTATS_CSRF_TOKEN)
  - Configuration file

When multiple usernames are given they are analyzed concurrently, each
with its own rate limiter.`,
	Example: `  # Analyze a single profile with default settings
  igstats analyze natgeo

  # Analyze the last 100 posts, Markdown only
  igstats analyze natgeo --max-posts 100 --format markdown

  # Analyze several profiles concurrently
  igstats analyze natgeo nasa bbcearth --workers 3

  # Use a specific stored account
  igstats analyze natgeo --account myaccount`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runAnalyze(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for reports (default: ./reports)")
	analyzeCmd.Flags().IntVar(&maxPosts, "max-posts", 0, "maximum number of recent posts to analyze")
	analyzeCmd.Flags().IntVar(&topN, "top", 0, "number of top hashtags and locations to report")
	analyzeCmd.Flags().StringSliceVar(&formats, "format", nil, "report formats to write (json, markdown)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "concurrent analyses when multiple usernames are given")
	analyzeCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	analyzeCmd.Flags().StringVar(&sessionID, "session-id", "", "Instagram session ID")
	analyzeCmd.Flags().StringVar(&csrfToken, "csrf-token", "", "Instagram CSRF token")
	analyzeCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "maximum requests per rate limit window")
	analyzeCmd.Flags().BoolVar(&noConsole, "no-console", false, "skip rendering the report to the terminal")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if sessionID != "" {
		flags["session-id"] = sessionID
	}
	if csrfToken != "" {
		flags["csrf-token"] = csrfToken
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if maxPosts > 0 {
		flags["max-posts"] = maxPosts
	}
	if topN > 0 {
		flags["top"] = topN
	}
	if len(formats) > 0 {
		flags["format"] = formats
	}
	if workers > 0 {
		flags["workers"] = workers
	}
	if rateLimit > 0 {
		flags["max-requests"] = rateLimit
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		printError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		printError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("igstats starting")

	resolveCredentials(cfg, log)

	client := instagram.NewClient(cfg.Analyze.RequestTimeout, log)
	client.SetSession(cfg.Instagram.SessionID, cfg.Instagram.CSRFToken)
	if cfg.Instagram.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Instagram.UserAgent)
	}

	writer, err := report.NewWriter(cfg.Output.Directory)
	if err != nil {
		printError("Failed to create output directory", err.Error())
		os.Exit(1)
	}

	var exporters []report.Exporter
	for _, format := range cfg.Output.Formats {
		exporter, err := report.ExporterFor(format)
		if err != nil {
			printError("Unknown report format", format)
			os.Exit(1)
		}
		exporters = append(exporters, exporter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	usernames := dedupeUsernames(args)
	failed := 0

	if len(usernames) == 1 {
		a := analyzer.New(client, cfg, log)
		rep, err := a.Analyze(ctx, usernames[0])
		if err != nil {
			log.WithError(err).WithField("username", usernames[0]).Error("Analysis failed")
			printError("Analysis failed", err.Error())
			os.Exit(1)
		}
		handleReport(cfg, writer, exporters, rep)
	} else {
		numWorkers := cfg.Analyze.Workers
		if numWorkers > len(usernames) {
			numWorkers = len(usernames)
		}

		p := pool.New(numWorkers, func() pool.Runner {
			return analyzer.New(client, cfg, log)
		}, log)
		p.Start()

		go func() {
			for _, username := range usernames {
				if err := p.Submit(username); err != nil {
					break
				}
			}
			p.Stop()
		}()

		for result := range p.Results() {
			if result.Err != nil {
				printError(fmt.Sprintf("@%s failed", result.Username), result.Err.Error())
				failed++
				continue
			}
			handleReport(cfg, writer, exporters, result.Report)
		}
	}

	if written := writer.Written(); len(written) > 0 {
		printInfo("Reports written", strings.Join(written, ", "))
	}

	if failed > 0 {
		printError(fmt.Sprintf("%d of %d profiles failed", failed, len(usernames)), "")
		os.Exit(1)
	}
	log.Info("All analyses completed")
}

// handleReport persists the report in every configured format and renders it
// to the terminal unless suppressed
func handleReport(cfg *config.Config, writer *report.Writer, exporters []report.Exporter, rep *report.Report) {
	for _, exporter := range exporters {
		if _, err := writer.Save(rep, exporter); err != nil {
			printError(fmt.Sprintf("Failed to write %s report for @%s", exporter.Ext(), rep.Username), err.Error())
			os.Exit(1)
		}
	}

	if cfg.Output.Console && !noConsole {
		fmt.Println(report.RenderConsole(rep))
	}
}

// resolveCredentials fills in session credentials from the credential
// manager when the config does not already carry them
func resolveCredentials(cfg *config.Config, log logger.Logger) {
	if accountName == "" && cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		printError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			printError("Account not found", accountName)
			printHint("Use 'igstats auth list' to see stored accounts")
			os.Exit(1)
		}
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			log.Error("No credentials found")
			printError("No Instagram credentials found", "")
			printHint("\nTo store credentials securely, run:")
			printHint("  igstats auth login")
			printHint("\nOr set environment variables:")
			printHint("  export IGSTATS_SESSION_ID=your_session_id")
			printHint("  export IGSTATS_CSRF_TOKEN=your_csrf_token")
			os.Exit(1)
		}
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}
	log.WithField("account", account.Username).Info("Using stored credentials")
}

func dedupeUsernames(args []string) []string {
	seen := make(map[string]bool, len(args))
	var out []string
	for _, arg := range args {
		username := strings.TrimSpace(arg)
		if username == "" || seen[username] {
			continue
		}
		seen[username] = true
		out = append(out, username)
	}
	return out
}
