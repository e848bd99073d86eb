package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/config"
	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/logging"
)

// backend is what the commands operate on.
type backend struct {
	users     core.UserService
	dashboard core.DashboardService
	close     func() error
}

// opener connects to the data store.
type opener func(ctx context.Context) (*backend, error)

// openFirestore loads the server configuration and connects to its database.
func openFirestore(ctx context.Context) (*backend, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.GinMode, "warn")
	if err != nil {
		return nil, err
	}

	accessor := db.NewFirestoreAccessor(cfg, logger)
	client, err := accessor.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to Firestore: %w", err)
	}

	userRepo := db.NewFirestoreUserRepository(client)
	challengeRepo := db.NewFirestoreChallengeRepository(client)
	return &backend{
		users: core.NewUserService(userRepo),
		dashboard: core.NewDashboardService(
			db.NewFirestoreParticipationRepository(client),
			challengeRepo,
			db.NewFirestoreTipRepository(client),
			db.NewFirestoreEventRepository(client),
		),
		close: func() error {
			defer logger.Sync()
			if err := accessor.Close(); err != nil {
				logger.Warn("Failed to close Firestore client", zap.Error(err))
				return err
			}
			return nil
		},
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	var (
		flagJSON    bool
		flagTimeout time.Duration
		be          *backend
		cancel      context.CancelFunc = func() {}
	)

	root := &cobra.Command{
		Use:   "ecotrackctl",
		Short: "EcoTrack maintenance tool",
		Long: `ecotrackctl runs maintenance tasks against the EcoTrack database.
It reads the same environment (or .env file) as the server.

  ecotrackctl roles migrate               Give every user without a role the "user" role
  ecotrackctl roles set a@b.com admin     Set a role explicitly
  ecotrackctl roles list                  Print every user's role
  ecotrackctl stats                       Print the impact totals`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var ctx context.Context
			ctx, cancel = context.WithTimeout(cmd.Context(), flagTimeout)
			cmd.SetContext(ctx)
			var err error
			be, err = open(ctx)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer cancel()
			if be == nil || be.close == nil {
				return nil
			}
			return be.close()
		},
	}
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "Overall deadline for the command")

	printJSON := func(cmd *cobra.Command, v interface{}) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	deps := func() *backend { return be }

	root.AddCommand(newRolesCmd(deps, &flagJSON, printJSON))
	root.AddCommand(newStatsCmd(deps, &flagJSON, printJSON))
	return root
}
