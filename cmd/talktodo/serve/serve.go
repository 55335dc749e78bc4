package servecmder

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/talktodo/pkg/completion"
	"github.com/papercomputeco/talktodo/pkg/config"
	"github.com/papercomputeco/talktodo/pkg/logger"
	"github.com/papercomputeco/talktodo/server"
)

const serveLongDesc string = `Serve the chat page.

Each browser session keeps its own conversation in memory until it has been
idle for the session TTL; nothing is written to disk. The server refuses to
start without OPENROUTER_API_KEY.

Examples:
  talktodo serve
  talktodo serve --listen :8080 --debug
  talktodo serve --env-file /etc/talktodo/.env`

const serveShortDesc string = "Serve the chat page"

type serveCommander struct {
	listen  string
	debug   bool
	envFile string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", config.DefaultListenAddr, "Address to listen on")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cmder.envFile, "env-file", config.DefaultEnvFile, "Path to a dotenv file")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{
		EnvFile: c.envFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()

	log.Info("talktodo starting",
		zap.String("listen", cfg.ListenAddr),
		zap.String("model", cfg.Model),
		zap.Bool("debug", cfg.Debug),
	)

	client, err := completion.New(cfg, completion.WithLogger(log))
	if err != nil {
		return fmt.Errorf("could not create completion client: %w", err)
	}

	srv, err := server.New(server.Config{
		ListenAddr: cfg.ListenAddr,
		Model:      cfg.Model,
		SessionTTL: cfg.SessionTTL,
	}, client, log)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("could not shut down server: %w", err)
		}
		return <-errCh
	}
}
