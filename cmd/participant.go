package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/courtmesh/availability"
	"github.com/hupe1980/courtmesh/logging"
)

func newParticipantCmd() *cobra.Command {
	var (
		addr string
		name string
		demo string
	)

	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Serve a demo availability provider for one participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false).WithComponent("participant")

			base := time.Now().UTC().Truncate(24 * time.Hour)
			var cal *availability.Calendar
			switch demo {
			case "early":
				cal = availability.NewDemoCalendarEarly(name, base)
			case "late":
				cal = availability.NewDemoCalendarLate(name, base)
			default:
				return fmt.Errorf("unknown demo calendar %q (want early or late)", demo)
			}

			cfg := availability.DefaultServerConfig()
			cfg.Addr = addr
			srv := availability.NewServer(cfg, cal, logger)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:10004", "listen address")
	cmd.Flags().StringVar(&name, "name", "jeff", "participant name")
	cmd.Flags().StringVar(&demo, "demo", "early", "demo calendar shape (early|late)")

	return cmd
}
