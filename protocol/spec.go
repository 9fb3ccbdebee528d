package protocol

import (
	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// specCmd emits the connection-form specification: field metadata, the
// enumerated modes and the frequency presets a client needs to render the
// form without guessing.
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Emit the connection form specification",
	RunE: func(_ *cobra.Command, _ []string) error {
		validator, err := form.NewValidator()
		if err != nil {
			return err
		}

		logger.LogSpec(map[string]any{
			"syncModes":            []types.SyncMode{types.FULLREFRESH, types.INCREMENTAL},
			"destinationSyncModes": []types.DestinationSyncMode{types.OVERWRITE, types.APPEND, types.APPENDDEDUP},
			"namespaceDefinitions": []types.NamespaceDefinition{types.NamespaceSource, types.NamespaceDestination, types.NamespaceCustomFormat},
			"normalizationTypes":   []types.NormalizationType{types.RAW, types.BASIC},
			"operatorTypes":        []types.OperatorType{types.OperatorNormalization, types.OperatorDbt},
			"scheduleTimeUnits":    []types.ScheduleTimeUnit{types.MINUTES, types.HOURS, types.DAYS, types.WEEKS, types.MONTHS},
			"frequencies":          form.Frequencies(validator.Translator()),
			"fields": map[string]any{
				"name":                map[string]any{"type": "string"},
				"prefix":              map[string]any{"type": "string"},
				"schedule":            map[string]any{"type": "object", "nullable": true},
				"namespaceDefinition": map[string]any{"type": "string", "required": true},
				"namespaceFormat":     map[string]any{"type": "string", "requiredWhen": "namespaceDefinition=customformat"},
				"normalization":       map[string]any{"type": "string"},
				"transformations":     map[string]any{"type": "array"},
				"syncCatalog":         map[string]any{"type": "object", "required": true},
			},
		})

		return nil
	},
}
