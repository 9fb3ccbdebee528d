package protocol

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/server"
	"github.com/lakedeck/lakedeck/snapshot"
	"github.com/lakedeck/lakedeck/store"
	"github.com/lakedeck/lakedeck/telemetry"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
	"github.com/lakedeck/lakedeck/utils/safego"
)

// serveCmd runs the connection API. The store and snapshot uploads are
// optional; without a store the stateless endpoints still serve.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the connection configuration API",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadStoreConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var backend store.Store
		defer func() {
			teardownErr := utils.ErrExecSequential(
				utils.ErrExecFormat("failed to close store: %s", func() error {
					if backend == nil {
						return nil
					}
					return backend.Close(context.Background())
				}),
				utils.ErrExecFormat("failed to flush telemetry: %s", telemetry.GetInstance().Flush),
			)
			if teardownErr != nil {
				logger.Errorf("Serve teardown finished with errors: %s", teardownErr)
			}
		}()

		if storeConfig != nil {
			var err error
			backend, err = store.NewStore(ctx, storeConfig)
			if err != nil {
				return err
			}
		} else {
			logger.Warn("No store configured; connection endpoints are disabled")
		}

		if persister := snapshot.Init(); persister != nil && backend != nil {
			safego.Run(func() {
				snapshot.RunPeriodicSnapshots(ctx, persister, func(listCtx context.Context) ([]*types.Connection, error) {
					return backend.ListConnections(listCtx)
				})
			})
		}

		app, err := server.NewApp(backend)
		if err != nil {
			return err
		}

		return app.Run(ctx, viper.GetString(constants.ListenAddr))
	},
}
