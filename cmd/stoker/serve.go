package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/live"
	"github.com/vovakirdan/deep-stoker/internal/platform/tui"
	"github.com/vovakirdan/deep-stoker/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagNoHTTP      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reactor SSH server",
	Long: `Start an SSH server where every connection gets the interactive console.
The SSH user name is the career name, so each user keeps their own rank,
credits and upgrades.

Running shifts are published on a live board. Unless --no-http is given,
a spectator API serves records, careers and the live board over HTTP, and
streams board events on /ws.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key_path from the config

Examples:
  stoker serve                           # SSH on :2323, spectators on :8080
  stoker serve --ssh :2222 --http :9090
  stoker serve --no-http

Users can connect with:
  ssh -t localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Spectator API address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
	serveCmd.Flags().BoolVar(&flagNoHTTP, "no-http", false, "Do not start the spectator API")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srvCfg := a.cfg.Server
	if flagSSHAddr != "" {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		srvCfg.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleMinutes = flagIdleTimeout
	}

	board := live.NewBoard(a.logger.WithPrefix("live"))

	sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      srvCfg.SSHAddr,
		HostKeyPath:  srvCfg.HostKeyPath,
		IdleTimeout:  time.Duration(srvCfg.IdleMinutes) * time.Minute,
		TickInterval: a.cfg.Engine.TickInterval(),
	}, tui.Env{
		Config:  a.cfg,
		Service: a.service,
		Records: a.store,
		Board:   board,
		Clock:   clock.Real{},
		Logger:  a.logger.WithPrefix("ssh"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- sshServer.ListenAndServe(ctx) }()

	fmt.Printf("Starting reactor SSH server on %s\n", srvCfg.SSHAddr)
	if !flagNoHTTP && srvCfg.HTTPAddr != "" {
		webServer := web.NewServer(srvCfg.HTTPAddr, a.store, board, a.logger.WithPrefix("http"))
		running++
		go func() { errCh <- webServer.ListenAndServe(ctx) }()
		fmt.Printf("Spectator API on %s (live feed at /ws)\n", srvCfg.HTTPAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		// A listener failed or closed on its own; take the other one down too.
		stop()
		for i := 1; i < running; i++ {
			<-errCh
		}
		return err
	case <-ctx.Done():
	}

	// Both servers shut down on ctx.
	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
