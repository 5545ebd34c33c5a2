package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadball/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [script]...",
	Short: "Start SSH server for spectators",
	Long: `Start an SSH server that shows match replays to anyone who connects.
Each connection gets its own replay; the client picks a script by name
with the SSH command, otherwise the first one is shown.

Scripts come from the arguments, or from server.scripts in the config.

Examples:
  quadball serve scripts/rally.yaml scripts/four_players.yaml
  quadball serve --ssh :2222
  ssh localhost -p 23235 four_players`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (auto-generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle connection timeout (default from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	paths := args
	if len(paths) == 0 {
		paths = cfg.Server.Scripts
	}

	serverCfg := tui.SSHServerConfigFrom(cfg)
	serverCfg.Scripts = loadScripts(paths)
	serverCfg.Catalog = loadCatalog()
	serverCfg.Logger = logger
	if flagSSHAddr != "" {
		serverCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		serverCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		serverCfg.IdleTimeout = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(serverCfg)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting SSH server on %s\n", serverCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(serverCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server: %v\n", err)
		os.Exit(1)
	}
}

// portOf extracts the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
