package protocol

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/crypto"
	"github.com/lakedeck/lakedeck/store"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// checkCmd verifies the store config and the encryption key, whichever are
// provided. The outcome goes out as a CONNECTION_STATUS row; a failed check
// is a successful command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the connection store or encryption key",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if storePath == "" && encryptionKey == "" {
			return fmt.Errorf("no store config or encryption key provided")
		}

		return loadStoreConfig()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		var checks []func() error
		if storeConfig != nil {
			checks = append(checks, utils.ErrExecFormat("store check failed: %s", func() error {
				backend, err := store.NewStore(cmd.Context(), storeConfig)
				if err != nil {
					return err
				}
				return backend.Close(cmd.Context())
			}))
		}
		if encryptionKey != "" {
			checks = append(checks, utils.ErrExecFormat("encryption check failed: %s", checkEncryption))
		}

		if err := utils.ErrExec(checks...); err != nil {
			logger.LogConnectionStatus(types.ConnectionFailed, err.Error())
			return
		}

		logger.LogConnectionStatus(types.ConnectionSucceed, "")
	},
}

// checkEncryption round-trips a fixed payload through the configured key.
func checkEncryption() error {
	if err := crypto.InitEncryption(); err != nil {
		return err
	}

	const payload = `{"check":"lakedeck"}`
	sealed, err := crypto.EncryptJSONString(payload)
	if err != nil {
		return err
	}
	opened, err := crypto.DecryptJSONString(sealed)
	if err != nil {
		return err
	}
	if opened != payload {
		return fmt.Errorf("encryption round trip mismatch")
	}

	return nil
}
