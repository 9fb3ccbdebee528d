package protocol

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/catalog"
	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/store"
	"github.com/lakedeck/lakedeck/telemetry"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// applyCmd validates a submitted form and writes it back onto the
// connection: catalog, schedule, namespace rules and the remapped operation
// list. With a store configured the result is persisted; either way the
// updated connection goes out as a CONNECTION row.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a submitted form to a connection",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if connectionPath == "" {
			return fmt.Errorf("--connection not passed")
		}

		connection = &types.Connection{}
		if err := utils.UnmarshalFile(connectionPath, connection, false); err != nil {
			return err
		}

		if err := loadCapabilities(); err != nil {
			return err
		}
		if err := loadStoreConfig(); err != nil {
			return err
		}

		return loadForm()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return telemetry.TrackCommand("Apply", func() error {
			validator, err := form.NewValidator()
			if err != nil {
				return err
			}

			result, err := validator.ValidateForm(formValues.Values, formValues.Capabilities)
			if err != nil {
				return err
			}
			if !result.Valid {
				logger.LogValidationResult(result)
				return fmt.Errorf("form failed validation with %d error(s)", len(result.Errors))
			}

			if formValues.WorkspaceID != "" {
				connection.WorkspaceID = formValues.WorkspaceID
			}

			changed, err := catalog.CatalogChanged(connection.SyncCatalog, formValues.Values.SyncCatalog)
			if err != nil {
				return fmt.Errorf("failed to diff catalogs: %s", err)
			}
			if !changed {
				logger.Infof("Catalog for connection %s is unchanged", connection.ConnectionID)
			}

			formValues.Values.ApplyTo(connection)
			logger.Infof("Connection %s has %d selected stream(s): %v", connection.ConnectionID,
				len(connection.SyncCatalog.SelectedStreams()), connection.SyncCatalog.SelectedStreams())

			if storeConfig != nil {
				backend, err := store.NewStore(cmd.Context(), storeConfig)
				if err != nil {
					return err
				}
				defer backend.Close(cmd.Context())

				if err := backend.SaveConnection(cmd.Context(), connection); err != nil {
					return err
				}
				logger.Infof("Connection %s persisted to %s store", connection.ConnectionID, backend.Type())
			}

			if !noSave {
				if err := utils.WriteFile(connectionPath, connection); err != nil {
					return fmt.Errorf("failed to write connection file: %s", err)
				}
			}

			logger.LogConnection(connection)
			return nil
		})
	},
}
