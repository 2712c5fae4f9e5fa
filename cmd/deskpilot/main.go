// Deskpilot is an AI-powered support ticket triage tool for B2B SaaS teams.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/linnemanlabs/go-core/cfg"
	"github.com/linnemanlabs/go-core/httpmw"
	"github.com/linnemanlabs/go-core/httpserver"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/metrics"
	v "github.com/linnemanlabs/go-core/version"

	"github.com/linnemanlabs/deskpilot/internal/agent"
	dc "github.com/linnemanlabs/deskpilot/internal/cfg"
	"github.com/linnemanlabs/deskpilot/internal/dashboard"
	"github.com/linnemanlabs/deskpilot/internal/kb"
	"github.com/linnemanlabs/deskpilot/internal/llm/claude"
	"github.com/linnemanlabs/deskpilot/internal/notify"
	"github.com/linnemanlabs/deskpilot/internal/notify/sendgrid"
	"github.com/linnemanlabs/deskpilot/internal/notify/slack"
	"github.com/linnemanlabs/deskpilot/internal/report"
	"github.com/linnemanlabs/deskpilot/internal/ticket"
	"github.com/linnemanlabs/deskpilot/internal/triage"
	"github.com/linnemanlabs/deskpilot/internal/triage/memstore"
	"github.com/linnemanlabs/deskpilot/internal/triage/pgstore"
)

const appName = "deskpilot"
const component = "cli"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set app name and component
	v.AppName = appName
	v.Component = component

	// Get build/version info
	vi := v.Get()

	// Local .env for API keys during development, real env wins
	_ = godotenv.Load()

	// each package registers its own flags and options struct
	var (
		appCfg  dc.Config
		httpCfg httpserver.Config
		logCfg  log.Config
	)

	appCfg.RegisterFlags(flag.CommandLine)
	httpCfg.RegisterFlags(flag.CommandLine)
	logCfg.RegisterFlags(flag.CommandLine)
	var showVersion bool
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")

	// parse flags to get config values from cmdline, we check env vars next which do not override cmdline flags
	flag.Parse()
	if showVersion {
		fmt.Printf(
			"%s (%s) %s (commit=%s, commit_date=%s, build_id=%s, build_date=%s, go=%s, dirty=%v)\n",
			vi.AppName, vi.Component, vi.Version, vi.Commit, vi.CommitDate, vi.BuildId, vi.BuildDate, vi.GoVersion,
			vi.VCSDirty != nil && *vi.VCSDirty,
		)
		return nil
	}

	// Fill in config values from environment variables with prefix DESKPILOT_,
	// these do not override cmdline flags
	cfg.FillFromEnv(flag.CommandLine, "DESKPILOT_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if err := errors.Join(
		appCfg.Validate(),
		httpCfg.Validate(),
		logCfg.Validate(),
	); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// initialize logger early
	lg, err := log.New(logCfg.ToOptions(v.AppName))
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	// create a logger with component field pre-filled for structured logging in this package
	L := lg.With("component", vi.Component)

	// add logger to context
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"build_id", vi.BuildId,
		"go_version", vi.GoVersion,
		"tickets", appCfg.TicketsPath,
		"agents", appCfg.AgentsPath,
		"knowledge_base", appCfg.KnowledgeBaseDir,
		"output_dir", appCfg.OutputDir,
		"claude_model", appCfg.ClaudeModel,
		"serve_port", appCfg.ServePort,
	)

	// Setup metrics, exposed on the dashboard listener in serve mode
	var m = metrics.New()
	m.SetBuildInfoFromVersion(v.AppName, component, &vi)

	// Load the batch inputs. All three are fatal on failure except a missing
	// knowledge base directory, which degrades drafting only.
	tickets, err := ticket.LoadCSV(appCfg.TicketsPath)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	roster, err := agent.Load(appCfg.AgentsPath)
	if err != nil {
		return fmt.Errorf("load agents: %w", err)
	}
	knowledge, err := kb.Load(appCfg.KnowledgeBaseDir)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}
	L.Info(ctx, "inputs loaded",
		"tickets", len(tickets),
		"teams", len(roster.Agents),
		"kb_topics", len(knowledge),
	)

	// Initialize the triage store
	var triageStore triage.Store
	if appCfg.DatabaseURL != "" {
		pgStore, err := pgstore.New(ctx, appCfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("pgstore init: %w", err)
		}
		defer pgStore.Close()
		triageStore = pgStore
		L.Info(ctx, "using postgres store")
	} else {
		triageStore = memstore.New()
		L.Info(ctx, "using in-memory store (no database-url configured)")
	}

	// Initialize Claude provider.
	claudeProvider := claude.New(appCfg.ClaudeAPIKey, appCfg.ClaudeModel)
	L.Info(ctx, "initialized LLM provider", "provider", "claude", "model", appCfg.ClaudeModel)

	// Initialize triage metrics on the shared Prometheus registry.
	triageMetrics := triage.NewMetrics(m.Registry())

	// Alert dispatch: SendGrid for the real emails, Slack as a best-effort
	// mirror. With neither configured alerts are recorded as not sent.
	var notifier triage.Notifier
	var mailer notify.Mailer
	if appCfg.SendGridAPIKey != "" {
		mailer = sendgrid.New(appCfg.SendGridAPIKey)
	}
	var mirror notify.Mirror
	if appCfg.SlackWebhookURL != "" {
		mirror = slack.New(appCfg.SlackWebhookURL)
	}
	if mailer != nil || mirror != nil {
		notifier = notify.New(mailer, mirror, notify.Config{
			FromEmail:        appCfg.FromEmail,
			GuardianEmail:    appCfg.GuardianEmail,
			OpportunityEmail: appCfg.OpportunityEmail,
		}, L, func(kind string) {
			triageMetrics.AlertSendFailures.WithLabelValues(kind).Inc()
		})
		L.Info(ctx, "alert dispatch enabled",
			"email", mailer != nil,
			"slack_mirror", mirror != nil,
		)
	} else {
		L.Info(ctx, "alert dispatch disabled (no sendgrid key or slack webhook)")
	}

	// Initialize the triage engine and batch service.
	provider := triageMetrics.InstrumentProvider(claudeProvider)
	engine := triage.NewEngine(provider, roster, knowledge, notifier, L, triageMetrics.Hooks())
	svc := triage.NewService(triageStore, engine, L)

	results, summary, err := svc.Process(ctx, tickets)
	if err != nil {
		return fmt.Errorf("triage run: %w", err)
	}

	// Write the report bundle.
	builder := report.NewBuilder(appCfg.OutputDir, L)
	if err := builder.WriteAll(ctx, results); err != nil {
		return fmt.Errorf("write report bundle: %w", err)
	}

	metricsSummary := report.ComputeMetrics(results)
	L.Info(ctx, "run complete",
		"run_id", summary.RunID,
		"tickets", metricsSummary.TotalTickets,
		"guardian_alerts", metricsSummary.GuardianAlerts,
		"opportunity_alerts", metricsSummary.OpportunityAlerts,
		"auto_resolved", metricsSummary.AutoResolved,
		"auto_resolved_rate", metricsSummary.AutoResolvedRate,
		"duration", summary.Duration.Seconds(),
	)

	if appCfg.ServePort == 0 {
		return nil
	}

	// Serve mode: expose the bundle, the results API and metrics until
	// interrupted.
	srv := dashboard.New(appCfg.OutputDir, triageStore, L)

	// middleware stack, order matters these are wrappers, outermost sees raw
	// request first
	var h http.Handler = srv.Handler(m.Handler(), appCfg.APIToken)
	h = httpmw.WithLogger(L)(h)
	h = m.Middleware(h)
	h = httpmw.RequestID("X-Request-Id")(h)
	h = httpmw.Recover(L, nil)(h)

	httpOpts, err := httpCfg.ToOptions()
	if err != nil {
		return fmt.Errorf("invalid http config: %w", err)
	}
	httpStop, err := httpserver.Start(ctx, fmt.Sprintf(":%d", appCfg.ServePort), h, L, httpOpts)
	if err != nil {
		return fmt.Errorf("start dashboard listener: %w", err)
	}
	L.Info(ctx, "serving report bundle", "port", appCfg.ServePort, "auth", appCfg.APIToken != "")

	// Notify systemd that we started successfully if started under systemd
	if err := notifySystemd(); err != nil {
		// log and dont exit, worst case systemd will kill the process after timeout
		L.Warn(ctx, "failed to notify systemd of readiness", "error", err)
	}

	// Wait for ctrl+c / sigterm
	<-ctx.Done()
	L.Info(context.Background(), "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "dashboard listener shutdown")
	}

	L.Info(context.Background(), "shutdown complete")
	return nil
}

func notifySystemd() error {
	// systemd will set NOTIFY_SOCKET to a unix socket path if we were started under systemd with type=notify
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return fmt.Errorf("NOTIFY_SOCKET not set, skipping systemd notify")
	}
	conn, err := net.Dial("unixgram", addr) //nolint:gosec,noctx // G704: addr is from NOTIFY_SOCKET set by systemd not user input, no context support in net package for unixgram sockets
	if err != nil {
		return fmt.Errorf("systemd notify failed: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if _, err := conn.Write([]byte("READY=1")); err != nil {
		return fmt.Errorf("systemd notify failed: write failed: %w", err)
	}
	return nil
}
