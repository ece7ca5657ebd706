package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"tourdesk/internal/devserver"
	"tourdesk/internal/store"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

func newDevserverCmd(app *App) *cobra.Command {
	var (
		addr   string
		dbPath string
		token  string
		seed   bool
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve the collection API from a local SQLite file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.context(cmd)
			log := app.logger()

			docs, err := store.OpenDocuments(ctx, dbPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer docs.Close()

			if seed {
				n, err := devserver.Seed(ctx, docs)
				if err != nil {
					return writeErr(cmd, err)
				}
				log.Info("seeded lookups", "documents", n)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, goerr.Wrap(err, "failed to listen", goerr.V("addr", addr)))
			}
			srv := &http.Server{
				Handler:           devserver.New(docs, devserver.WithToken(token), devserver.WithLogger(log)),
				ReadHeaderTimeout: 10 * time.Second,
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "devserver listening on http://%s (db %s)\n", ln.Addr(), dbPath)
			return serveUntilDone(ctx, srv, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("TOURDESK_DEV_ADDR", "127.0.0.1:8080"), "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", envOr("TOURDESK_DEV_DB", "tourdesk-dev.sqlite"), "SQLite database file")
	cmd.Flags().StringVar(&token, "auth-token", envOr("TOURDESK_DEV_TOKEN", ""), "Require this bearer token (empty = no auth)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Seed demo destinations and hotels into empty lookups")
	return cmd
}

// serveUntilDone serves until ctx is cancelled, then drains connections.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return goerr.Wrap(err, "devserver stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down devserver")
	}
	return nil
}
