package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"tourdesk/internal/api"
	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/format"
	"tourdesk/internal/logging"
	"tourdesk/internal/store"
	"tourdesk/internal/tui"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Token      string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string
	Timeout    time.Duration

	log      *slog.Logger
	closeLog func()
	prompt   prompter
	// newClient defaults to defaultClient.
	newClient func() (*api.Client, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.prompt == nil {
		app.prompt = surveyPrompter{}
	}
	if app.newClient == nil {
		app.newClient = app.defaultClient
	}

	cmd := &cobra.Command{
		Use:          "tourdesk",
		Short:        "Travel back-office console (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  tourdesk

  # Scriptable commands
  tourdesk customers list --format table
  tourdesk hotel-bookings create --set guestName=Bo --set destination=dest-goa ...

  # Run the local backend
  tourdesk devserver --seed
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		opts := logging.Options{Level: app.LogLevel, File: app.LogFile, Console: cmd.ErrOrStderr()}
		// The TUI owns the terminal; it only logs to a file.
		if !cmd.HasParent() {
			opts.Quiet = true
		}
		l, closer, err := logging.New(opts)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log, app.closeLog = l, closer
		logging.SetDefault(l)
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.closeLog != nil {
			app.closeLog()
		}
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("TOURDESK_BASE_URL", ""), "API base URL (default: baseUrl from ~/.tourdesk/config.json)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("TOURDESK_TOKEN", ""), "Bearer token (default: token stored by `tourdesk login`)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TOURDESK_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TOURDESK_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("TOURDESK_LOG_FILE", ""), "Write JSON logs to this file instead of stderr")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", envDuration("TOURDESK_TIMEOUT", 0), "HTTP timeout (0 = none)")

	for _, def := range entity.All() {
		cmd.AddCommand(newEntityCmd(app, def))
	}
	cmd.AddCommand(newLookupsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDevserverCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	client, err := app.newClient()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{
		Backend:  client,
		Renderer: app.renderer(),
		Logger:   app.logger(),
	}
	if cfg.TUI != nil {
		opts.View = cfg.TUI.View
		opts.Glyphs = cfg.TUI.Glyphs
	}
	return tui.Run(app.context(cmd), opts)
}

// defaultClient resolves the base URL (flag/env, then config) and the token
// (flag/env, then the config file read per request).
func (app *App) defaultClient() (*api.Client, error) {
	base := strings.TrimSpace(app.BaseURL)
	if base == "" {
		cfg, err := store.LoadConfig()
		if err != nil {
			return nil, err
		}
		base = cfg.BaseURL
	}
	if base == "" {
		return nil, goerr.New("no API base URL; pass --base-url, set TOURDESK_BASE_URL or run `tourdesk login`")
	}

	var creds api.CredentialProvider = store.ConfigCredentials{}
	if t := strings.TrimSpace(app.Token); t != "" {
		creds = api.StaticToken(t)
	}
	c := api.New(base, creds)
	c.HTTPClient = &http.Client{Timeout: app.Timeout}
	c.Logger = app.logger()
	return c, nil
}

func (app *App) logger() *slog.Logger {
	if app.log != nil {
		return app.log
	}
	return logging.Default()
}

// renderer builds the value formatter from the configured currency/locale.
func (app *App) renderer() *detail.Renderer {
	opts := detail.DefaultOptions()
	if cfg, err := store.LoadConfig(); err == nil {
		if cfg.Currency != "" {
			opts.Currency = cfg.Currency
		}
		if cfg.Locale != "" {
			opts.Locale = cfg.Locale
		}
	}
	return detail.New(opts)
}

func (app *App) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.With(ctx, app.logger())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return d
	}
	return parsed
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// writeAPIErr prints the user-facing message for a failed request.
func writeAPIErr(cmd *cobra.Command, err error, fallback string) error {
	msg := api.Message(err, "")
	if msg == "" {
		msg = fallback + ": " + err.Error()
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return err
}
