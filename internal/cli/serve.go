package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/api"
	"github.com/rcliao/space-dashboard/internal/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard HTTP API",
		Run:   runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides config)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	srv := api.NewServer(api.Deps{
		Content:   newFetcher(s),
		Sky:       newSkyClient(),
		Moon:      newMoonClient(),
		Astronaut: newDailyAstronaut(s),
		Themes:    loadThemes(ctx, s),
		Store:     s,
		Logger:    logger.WithComponent("api"),
	}, cfg.Server.Mode, cfg.Server.AllowedOrigins)

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if err := srv.Run(ctx, cfg.Server.GetAddr(), timeout); err != nil {
		exitErr("serve", err)
	}
}
