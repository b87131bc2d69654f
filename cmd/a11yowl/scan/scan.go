package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"a11yowl/internal/client"
	"a11yowl/internal/config"
	"a11yowl/internal/models"
	"a11yowl/internal/services"
	"a11yowl/internal/views"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cliVisitor is the rate limit and preference key for terminal scans.
const cliVisitor = "cli"

// Options holds the scan command flags.
type Options struct {
	IncludeAIO bool
	Email      string
	ReportType string
	Platform   string
}

// App bundles what the terminal commands need to talk to the backend.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	service services.ScanServiceMethods
}

// NewApp loads configuration and builds a scan service without a
// preference store or notifier.
func NewApp(cmd *cobra.Command) (*App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	loader, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg := loader.Config()

	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}
	appLogger := logger.NewLogger(level)
	appLogger.SetOutput(cmd.ErrOrStderr())

	api := client.New(client.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, client.WithLogger(appLogger))

	svc := services.NewScanService(api, nil,
		services.WithLogger(appLogger),
		services.WithPollSettings(services.PollSettings{
			Schedule:     poller.DefaultSchedule(),
			Timeout:      cfg.Poll.Timeout,
			TickInterval: cfg.Poll.TickInterval,
		}),
	)

	return &App{config: cfg, logger: appLogger, service: svc}, nil
}

func (a *App) Close(ctx context.Context) error {
	return a.service.Shutdown(ctx)
}

// Run starts a scan, follows it until it settles and prints the result.
func (a *App) Run(ctx context.Context, cmd *cobra.Command, rawURL string, opts Options) error {
	out := cmd.OutOrStdout()

	started, err := a.service.StartScan(ctx, cliVisitor, rawURL, opts.IncludeAIO)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Scan %s started for %s\n", started.ScanID, rawURL)

	var last poller.State
	session := a.service.WatchScan(ctx, started.ScanID, func(snap poller.Snapshot) {
		if snap.State == last {
			return
		}
		last = snap.State
		if line := stageLine(snap.State); line != "" {
			fmt.Fprintln(out, line)
		}
	})

	final, err := session.Wait(ctx)
	if err != nil {
		return err
	}

	view := views.NewStatusView(final, views.ResultsOptions{})
	printStatus(out, view)

	switch view.Variant {
	case views.VariantResults:
	case views.VariantTimedOut:
		return fmt.Errorf("scan %s still running, check again with: a11yowl status %s", final.ScanID, final.ScanID)
	default:
		return fmt.Errorf("scan %s ended in state %s", final.ScanID, final.State)
	}

	if opts.Email == "" {
		return nil
	}

	req := models.ReportRequest{
		Email:            opts.Email,
		ReportType:       models.ReportType(opts.ReportType),
		PlatformSelected: opts.Platform,
	}
	resp, err := a.service.RequestReport(ctx, cliVisitor, started.ScanID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReport sent to %s: %s\n", opts.Email, resp.Message)
	return nil
}

// Status prints a single snapshot of a scan.
func (a *App) Status(ctx context.Context, cmd *cobra.Command, scanID string) error {
	scan, err := a.service.GetScan(ctx, scanID)
	snap := poller.SnapshotOf(scanID, scan, err)
	printStatus(cmd.OutOrStdout(), views.NewStatusView(snap, views.ResultsOptions{}))
	return err
}

func NewScanCommand() *cobra.Command {
	opts := Options{}

	scanCmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan a website and print the results",
		Long:  `Start a scan on the backend, follow its progress and print the scores, sample issues and risk estimate`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			if err := app.Run(ctx, cmd, args[0], opts); err != nil {
				app.logger.Debugf("Scan error: %v", err)
				return err
			}
			return nil
		},
	}

	scanCmd.Flags().BoolVar(&opts.IncludeAIO, "aio", false, "Also score AI discoverability")
	scanCmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Email the full report to this address when the scan completes")
	scanCmd.Flags().StringVar(&opts.ReportType, "report-type", string(models.ReportTypeFree), "Report tier: free or full")
	scanCmd.Flags().StringVar(&opts.Platform, "platform", "", "Website platform to record with the report request")

	return scanCmd
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <scan-id>",
		Short: "Print the current state of a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			app, err := NewApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			return app.Status(cmd.Context(), cmd, args[0])
		},
	}
}
