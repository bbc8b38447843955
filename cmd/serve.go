package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/labelgrid/internal/server"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openWorkspace(true)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := r.config.Server
	if port := int(cmd.Int("port")); port > 0 {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}

	srv := server.New(cfg, s.ws, s.thumbs.Dir(), shared.WithLogger(r.logger, "component", "server"))
	if cmd.Bool("open") {
		url := "http://" + ln.Addr().String() + "/api/tree"
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "url", url, "error", err)
		}
	}
	return srv.Serve(ctx, ln)
}
