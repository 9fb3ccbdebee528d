package protocol

import (
	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/telemetry"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// validateCmd runs the declarative form schema over a submitted form file.
// Invalid input is a VALIDATION_RESULT row, not a command failure.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a submitted connection form",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadCapabilities(); err != nil {
			return err
		}

		return loadForm()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return telemetry.TrackCommand("Validate", func() error {
			validator, err := form.NewValidator()
			if err != nil {
				return err
			}

			result, err := validator.ValidateForm(formValues.Values, formValues.Capabilities)
			if err != nil {
				return err
			}

			logger.LogValidationResult(result)
			return nil
		})
	},
}
