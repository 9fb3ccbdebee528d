package protocol

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/telemetry"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

var (
	formPath         string
	connectionPath   string
	catalogPath      string
	storePath        string
	capabilitiesPath string
	frequenciesPath  string
	encryptionKey    string
	listenAddr       string
	snapshotPath     string
	noSave           bool

	formValues   *formFile
	connection   *types.Connection
	syncCatalog  *types.SyncCatalog
	storeConfig  *types.StoreConfig
	capabilities *types.DestinationCapabilities

	commands = []*cobra.Command{}
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lakedeck",
	Short: "lakedeck connection configuration engine",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		viper.SetDefault(constants.ConfigFolder, os.TempDir())
		viper.SetDefault(constants.ListenAddr, constants.DefaultListenAddr)

		if !noSave {
			configFolder := utils.Ternary(connectionPath == "",
				utils.Ternary(formPath == "", os.TempDir(), filepath.Dir(formPath)).(string),
				filepath.Dir(connectionPath)).(string)
			viper.Set(constants.ConfigFolder, configFolder)
		}

		if encryptionKey != "" {
			viper.Set(constants.EncryptionKey, encryptionKey)
		}
		if frequenciesPath != "" {
			viper.Set(constants.FrequenciesPath, frequenciesPath)
		}
		if listenAddr != "" {
			viper.Set(constants.ListenAddr, listenAddr)
		}
		if snapshotPath != "" {
			viper.Set(constants.SnapshotBucket, snapshotPath)
		}

		// logger uses CONFIG_FOLDER
		logger.Init()
		telemetry.Init()

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'lakedeck --help' to display usage guide", args[0])
		}

		return nil
	},
}

// formFile is the on-disk shape of a submitted form: the values themselves
// plus the workspace the edit belongs to.
type formFile struct {
	WorkspaceID  string                         `json:"workspaceId,omitempty"`
	Values       *form.Values                   `json:"values"`
	Capabilities *types.DestinationCapabilities `json:"capabilities,omitempty"`
}

func loadForm() error {
	if formPath == "" {
		return fmt.Errorf("--form not passed")
	}

	formValues = &formFile{}
	if err := utils.UnmarshalFile(formPath, formValues, false); err != nil {
		return err
	}
	if formValues.Values == nil {
		return fmt.Errorf("form file %s carries no values", formPath)
	}
	if capabilities != nil {
		formValues.Capabilities = capabilities
	}

	return nil
}

func loadStoreConfig() error {
	if storePath == "" {
		return nil
	}

	storeConfig = &types.StoreConfig{}
	return utils.UnmarshalFile(storePath, storeConfig, false)
}

func loadCapabilities() error {
	if capabilitiesPath == "" {
		return nil
	}

	capabilities = &types.DestinationCapabilities{}
	return utils.UnmarshalFile(capabilitiesPath, capabilities, false)
}

func CreateRootCommand() *cobra.Command {
	RootCmd.AddCommand(commands...)

	return RootCmd
}

func init() {
	commands = append(commands, specCmd, checkCmd, deriveCmd, validateCmd, applyCmd, docsCmd, serveCmd)

	RootCmd.PersistentFlags().StringVarP(&formPath, "form", "", "", "Path to the submitted form file")
	RootCmd.PersistentFlags().StringVarP(&connectionPath, "connection", "", "", "Path to the persisted connection file")
	RootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "", "", "Path to the sync catalog file")
	RootCmd.PersistentFlags().StringVarP(&storePath, "store", "", "", "Path to the connection store config")
	RootCmd.PersistentFlags().StringVarP(&capabilitiesPath, "capabilities", "", "", "Path to the destination capabilities file")
	RootCmd.PersistentFlags().StringVarP(&frequenciesPath, "frequencies", "", "", "Path to the frequency presets file")
	RootCmd.PersistentFlags().StringVarP(&encryptionKey, "encryption-key", "", "", "(Optional) Secret encryption key. Provide the ARN of a KMS key or a custom passphrase.")
	RootCmd.PersistentFlags().StringVarP(&listenAddr, "listen", "", "", "Listen address for the serve command")
	RootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot-storage", "", "", "Path to the snapshot storage config")
	RootCmd.PersistentFlags().BoolVarP(&noSave, "no-save", "", false, "(Optional) Flag to skip using file locations for the config folder")

	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
