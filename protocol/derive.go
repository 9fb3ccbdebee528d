package protocol

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/catalog"
	"github.com/lakedeck/lakedeck/telemetry"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// deriveCmd fills per-stream defaults into a catalog and writes the derived
// copy next to the input.
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive initial stream configurations for a catalog",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if catalogPath == "" {
			return fmt.Errorf("--catalog not passed")
		}

		syncCatalog = &types.SyncCatalog{}
		return utils.UnmarshalFile(catalogPath, syncCatalog, false)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return telemetry.TrackCommand("Derive", func() error {
			derived := catalog.DeriveInitialCatalog(syncCatalog)

			if !noSave {
				derivedPath := filepath.Join(filepath.Dir(catalogPath), "derived_catalog.json")
				if err := utils.WriteFile(derivedPath, derived); err != nil {
					return fmt.Errorf("failed to write derived catalog: %s", err)
				}
				logger.Infof("Derived catalog written to %s", derivedPath)
			}

			logger.LogCatalog(derived)
			return nil
		})
	},
}
