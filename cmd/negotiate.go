package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/courtmesh"
	"github.com/hupe1980/courtmesh/config"
	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/logging"
)

func newNegotiateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Run one negotiation against the configured participants and book the court",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(configPath)
			if err != nil {
				return err
			}

			roster := cfg.Roster()
			if len(roster) == 0 {
				return fmt.Errorf("no participants configured (set %s or the config file)", config.ParticipantsEnvVar)
			}

			logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)

			mesh := courtmesh.New(func(o *courtmesh.Options) {
				o.EngineConfig = cfg.EngineConfig()
				o.Logger = logger
			})

			// Search starts tomorrow, the demo calendars are relative to it too.
			start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
			dateRange, err := core.NewTimeInterval(start, start.AddDate(0, 0, cfg.DaysAhead))
			if err != nil {
				return err
			}

			outcome, err := mesh.Negotiate(cmd.Context(), core.NegotiationRequest{
				Participants: roster,
				DateRange:    dateRange,
				ResourceID:   cfg.Resource,
				SlotDuration: time.Duration(cfg.SlotMinutes) * time.Minute,
				Reference:    cfg.Reference,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "courtmesh.yaml", "path to the config file")

	return cmd
}
