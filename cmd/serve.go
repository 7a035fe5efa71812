package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/db"
	"github.com/VoxDroid/taxis/internal/server"
	"github.com/VoxDroid/taxis/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rest/taxis collection from the local SQLite database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := appConfig.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		dbPath, err := appConfig.ResolveDBPath()
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, ln, dbPath, cmd.OutOrStdout())
	},
}

// serve runs the taxi service on ln until ctx is done, then shuts it down
// gracefully.
func serve(ctx context.Context, ln net.Listener, dbPath string, out io.Writer) error {
	dbConn, err := db.Open(dbPath)
	if err != nil {
		_ = ln.Close()
		return err
	}
	repo := store.NewRepository(dbConn)
	defer func() { _ = repo.Close() }()

	srv := server.NewHTTPServer(ln.Addr().String(), server.NewRouter(repo, logger))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	fmt.Fprintf(out, "taxis serving http://%s/rest/taxis (db %s)\n", ln.Addr(), dbPath)
	logger.Info("server started", "addr", ln.Addr().String(), "db", dbPath)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
