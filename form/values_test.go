package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/types"
)

func TestFromConnectionDefaults(t *testing.T) {
	connection := &types.Connection{
		ConnectionID: "conn-1",
		SyncCatalog:  &types.SyncCatalog{},
	}

	values := FromConnection(connection, false)

	assert.Equal(t, types.NamespaceSource, values.NamespaceDefinition)
	assert.Equal(t, constants.SourceNamespaceFormat, values.NamespaceFormat)
	assert.Equal(t, types.BASIC, values.Normalization, "New connections default to basic normalization")
	require.NotNil(t, values.SyncCatalog)
}

func TestFromConnectionEditModeWithoutNormalization(t *testing.T) {
	connection := &types.Connection{
		ConnectionID: "conn-1",
		SyncCatalog:  &types.SyncCatalog{},
	}

	values := FromConnection(connection, true)

	assert.Equal(t, types.RAW, values.Normalization,
		"A saved connection without a normalization operation means the user chose raw")
}

func TestFromConnectionSplitsOperations(t *testing.T) {
	connection := &types.Connection{
		ConnectionID: "conn-1",
		Operations: []*types.Operation{
			normalizationOp("norm-1"),
			dbtOp("dbt-1", "dbt:1.0"),
			dbtOp("dbt-2", "dbt:2.0"),
		},
		SyncCatalog: &types.SyncCatalog{},
	}

	values := FromConnection(connection, true)

	assert.Equal(t, types.BASIC, values.Normalization)
	require.Len(t, values.Transformations, 2)
	assert.Equal(t, "dbt-1", values.Transformations[0].OperationID)
	assert.Equal(t, "dbt-2", values.Transformations[1].OperationID)
}

func TestFromConnectionDerivesCatalog(t *testing.T) {
	stream := types.NewStream("orders", "public").
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithDefaultCursorField("updated_at")
	connection := &types.Connection{
		ConnectionID: "conn-1",
		SyncCatalog:  types.GetWrappedCatalog([]*types.Stream{stream}),
	}

	values := FromConnection(connection, false)

	require.Len(t, values.SyncCatalog.Streams, 1)
	config := values.SyncCatalog.Streams[0].Config
	assert.Equal(t, types.INCREMENTAL, config.SyncMode)
	assert.Equal(t, []string{"updated_at"}, config.CursorField)

	// form-open derivation never touches the persisted connection
	assert.Empty(t, connection.SyncCatalog.Streams[0].Config.SyncMode)
}

func TestApplyToRemapsConnection(t *testing.T) {
	previous := normalizationOp("norm-1")
	connection := &types.Connection{
		ConnectionID: "conn-1",
		WorkspaceID:  "ws-1",
		Operations:   []*types.Operation{previous},
	}

	stream := types.NewStream("users", "public").WithSyncMode(types.FULLREFRESH).Wrap()
	values := Values{
		Name:                "renamed",
		Prefix:              "lake_",
		Schedule:            &types.Schedule{Units: 1, TimeUnit: types.HOURS},
		NamespaceDefinition: types.NamespaceDestination,
		Normalization:       types.BASIC,
		SyncCatalog:         &types.SyncCatalog{Streams: []*types.ConfiguredStream{stream}},
	}

	before := connection.UpdatedAt
	values.ApplyTo(connection)

	assert.Equal(t, "renamed", connection.Name)
	assert.Equal(t, "lake_", connection.Prefix)
	assert.Equal(t, types.NamespaceDestination, connection.NamespaceDefinition)
	require.Len(t, connection.Operations, 1)
	assert.Same(t, previous, connection.Operations[0], "Persisted normalization identity survives the edit")
	assert.True(t, connection.UpdatedAt.After(before), "UpdatedAt should be bumped")
}
