package logger

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/lakedeck/lakedeck/types"
)

// Message emits a typed protocol row as single-line JSON on stdout.
func Message(message types.Message) {
	data, err := json.Marshal(message)
	if err != nil {
		Errorf("failed to marshal %s message: %s", message.Type, err)
		return
	}

	fmt.Fprintln(os.Stdout, string(data))
}

func LogCatalog(catalog *types.SyncCatalog) {
	Message(types.Message{
		Type:    types.CatalogMessage,
		Catalog: catalog,
	})
}

func LogConnection(connection *types.Connection) {
	Message(types.Message{
		Type:       types.ConnectionMessage,
		Connection: connection,
	})
}

func LogConnectionStatus(status types.Status, message string) {
	Message(types.Message{
		Type: types.ConnectionStatusMessage,
		ConnectionStatus: &types.StatusRow{
			Status:  status,
			Message: message,
		},
	})
}

func LogSpec(spec map[string]any) {
	Message(types.Message{
		Type: types.SpecMessage,
		Spec: spec,
	})
}

func LogValidationResult(result *types.ValidationResult) {
	Message(types.Message{
		Type:             types.ValidationResultMessage,
		ValidationResult: result,
	})
}
