package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/intakeflow/intakeflow/internal/chat"
	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake HTTP server",
	Long:  `Starts the chat intake server with the REST API and WebSocket endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		database, sessions, clients, lib, err := loadStores(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		provider := createProvider(cfg)
		processor := chat.NewProcessor(sessions, clients, lib, provider, cfg)
		srv := server.New(cfg, database, sessions, clients, processor)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "intakeflow v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Clients: %s\n", strings.Join(clients.IDs(), ", "))

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
