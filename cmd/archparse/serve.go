package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/mcptools"
	"github.com/dusk-indust/archparse/internal/rpc"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over Connect RPC (and MCP at /mcp)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// newMux mounts the RPC service and, when enabled, the MCP endpoint.
func newMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()
	path, handler := rpc.NewParserServiceHandler(rpc.NewParserHandler(a.svc), a.log)
	mux.Handle(path, handler)
	if a.cfg.MCPEnabled() {
		tools := mcptools.NewParserTools(a.svc, a.walkOptions(), a.log)
		mux.Handle("/mcp", mcptools.NewHTTPHandler(mcptools.NewParserMCPServer(tools)))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func serve(ctx context.Context, a *app) error {
	srv := rpc.NewServer(a.cfg.ListenAddr, newMux(a), a.log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
