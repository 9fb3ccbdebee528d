package form

import (
	"time"

	"github.com/lakedeck/lakedeck/catalog"
	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
)

// Values is the editable connection form state. It is derived from a
// persisted connection when the form opens and mapped back onto it on save;
// the connection itself stays untouched in between.
type Values struct {
	Name                string                    `json:"name,omitempty"`
	Prefix              string                    `json:"prefix,omitempty"`
	Schedule            *types.Schedule           `json:"schedule,omitempty"`
	NamespaceDefinition types.NamespaceDefinition `json:"namespaceDefinition" validate:"required,oneof=source destination customformat"`
	NamespaceFormat     string                    `json:"namespaceFormat,omitempty" validate:"required_if=NamespaceDefinition customformat"`
	Normalization       types.NormalizationType   `json:"normalization,omitempty" validate:"omitempty,oneof=raw basic"`
	Transformations     []*types.Operation        `json:"transformations,omitempty"`
	SyncCatalog         *types.SyncCatalog        `json:"syncCatalog" validate:"required"`
}

// FromConnection derives the initial form state for a connection: namespace
// fields fall back to their defaults, the persisted operation list splits
// into the normalization choice and the dbt transformations, and every
// stream of the catalog gets a complete configuration.
//
// editMode distinguishes reopening a saved connection from configuring a new
// one: a saved connection without a normalization operation means the user
// chose raw, while a new connection defaults to basic.
func FromConnection(connection *types.Connection, editMode bool) Values {
	values := Values{
		Name:                connection.Name,
		Prefix:              connection.Prefix,
		Schedule:            connection.Schedule,
		NamespaceDefinition: connection.NamespaceDefinition,
		NamespaceFormat:     connection.NamespaceFormat,
		Normalization:       initialNormalization(connection.Operations, editMode),
		Transformations:     initialTransformations(connection.Operations),
		SyncCatalog:         catalog.DeriveInitialCatalog(connection.SyncCatalog),
	}

	if values.NamespaceDefinition == "" {
		values.NamespaceDefinition = types.NamespaceSource
	}
	if values.NamespaceFormat == "" {
		values.NamespaceFormat = constants.SourceNamespaceFormat
	}

	return values
}

func initialNormalization(operations []*types.Operation, editMode bool) types.NormalizationType {
	idx, found := utils.ArrayContains(operations, func(operation *types.Operation) bool {
		return operation.IsNormalization()
	})
	if found {
		if normalization := operations[idx].OperatorConfiguration.Normalization; normalization != nil && normalization.Option != "" {
			return normalization.Option
		}
	}

	return utils.Ternary(editMode, types.RAW, types.BASIC).(types.NormalizationType)
}

func initialTransformations(operations []*types.Operation) []*types.Operation {
	var transformations []*types.Operation
	for _, operation := range operations {
		if operation.IsDbt() {
			transformations = append(transformations, operation)
		}
	}

	return transformations
}

// ApplyTo writes the submitted values back onto the connection and remaps
// its operation list; UpdatedAt is bumped to the current time.
func (v Values) ApplyTo(connection *types.Connection) {
	connection.Name = v.Name
	connection.Prefix = v.Prefix
	connection.Schedule = v.Schedule
	connection.NamespaceDefinition = v.NamespaceDefinition
	connection.NamespaceFormat = v.NamespaceFormat
	connection.SyncCatalog = v.SyncCatalog
	connection.Operations = MapOperations(v, connection.Operations, connection.WorkspaceID)
	connection.UpdatedAt = time.Now().UTC()
}
