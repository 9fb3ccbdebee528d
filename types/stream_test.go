package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestStream_NewStream(t *testing.T) {
	stream := NewStream("users", "public")

	assert.Equal(t, "users", stream.Name)
	assert.Equal(t, "public", stream.Namespace)
	assert.NotNil(t, stream.SupportedSyncModes, "SupportedSyncModes should be initialized")
	assert.Equal(t, "public.users", stream.ID())
}

func TestStream_ID(t *testing.T) {
	tests := []struct {
		name       string
		streamName string
		namespace  string
		expected   string
	}{
		{
			name:       "with namespace",
			streamName: "users",
			namespace:  "public",
			expected:   "public.users",
		},
		{
			name:       "without namespace",
			streamName: "users",
			namespace:  "",
			expected:   "users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream(tt.streamName, tt.namespace)
			assert.Equal(t, tt.expected, stream.ID())
		})
	}
}

func TestStream_WithSyncMode(t *testing.T) {
	tests := []struct {
		name             string
		modes            []SyncMode
		expectedModes    []SyncMode
		notExpectedModes []SyncMode
	}{
		{
			name:             "single mode",
			modes:            []SyncMode{FULLREFRESH},
			expectedModes:    []SyncMode{FULLREFRESH},
			notExpectedModes: []SyncMode{INCREMENTAL},
		},
		{
			name:             "multiple modes",
			modes:            []SyncMode{FULLREFRESH, INCREMENTAL},
			expectedModes:    []SyncMode{FULLREFRESH, INCREMENTAL},
			notExpectedModes: []SyncMode{},
		},
		{
			name:             "duplicate modes",
			modes:            []SyncMode{FULLREFRESH, FULLREFRESH, INCREMENTAL},
			expectedModes:    []SyncMode{FULLREFRESH, INCREMENTAL},
			notExpectedModes: []SyncMode{},
		},
		{
			name:             "empty modes",
			modes:            []SyncMode{},
			expectedModes:    []SyncMode{},
			notExpectedModes: []SyncMode{FULLREFRESH, INCREMENTAL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream("users", "public")
			outputStream := stream.WithSyncMode(tt.modes...)

			// check if it returns the exact same pointer
			assert.Same(t, stream, outputStream, "Should return the same instance")

			for _, mode := range tt.expectedModes {
				assert.True(t, outputStream.SupportedSyncModes.Exists(mode), "Should contain %v", mode)
			}

			for _, mode := range tt.notExpectedModes {
				assert.False(t, outputStream.SupportedSyncModes.Exists(mode), "Should not contain %v", mode)
			}
		})
	}
}

func TestStream_WithPrimaryKey(t *testing.T) {
	tests := []struct {
		name     string
		keys     [][]string
		expected [][]string
	}{
		{
			name:     "single key",
			keys:     [][]string{{"id"}},
			expected: [][]string{{"id"}},
		},
		{
			name:     "composite key",
			keys:     [][]string{{"tenant_id"}, {"user_id"}},
			expected: [][]string{{"tenant_id"}, {"user_id"}},
		},
		{
			name:     "nested field path",
			keys:     [][]string{{"payload", "id"}},
			expected: [][]string{{"payload", "id"}},
		},
		{
			name:     "empty keys",
			keys:     [][]string{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream("users", "public")
			returnedStream := stream.WithPrimaryKey(tt.keys...)

			assert.Same(t, stream, returnedStream, "Should return the same instance")
			assert.Equal(t, tt.expected, stream.SourceDefinedPrimaryKey)
		})
	}
}

func TestStream_WithDefaultCursorField(t *testing.T) {
	stream := NewStream("users", "public").
		WithDefaultCursorField("updated_at").
		WithSourceDefinedCursor()

	assert.Equal(t, []string{"updated_at"}, stream.DefaultCursorField)
	assert.True(t, stream.SourceDefinedCursor, "Cursor should be marked source defined")
}

func TestStream_Wrap(t *testing.T) {
	stream := NewStream("users", "public").WithSyncMode(FULLREFRESH, INCREMENTAL)

	configured := stream.Wrap()

	assert.NotNil(t, configured, "Should return a configured stream")
	assert.Same(t, stream, configured.Stream, "Should wrap the exact same stream instance")
	assert.Empty(t, configured.Config.SyncMode, "Config should start empty")
	assert.False(t, configured.Config.Selected, "Config should start unselected")
}

func TestStream_UnmarshalJSON(t *testing.T) {
	t.Run("safe initialization on missing fields", func(t *testing.T) {
		jsonData := []byte(`{
			"name":      "users",
			"namespace": "public"
		}`)

		var stream Stream

		err := json.Unmarshal(jsonData, &stream)

		assert.NoError(t, err)
		assert.Equal(t, "users", stream.Name)
		assert.Equal(t, "public", stream.Namespace)

		// to prevent nil pointer panics later
		assert.NotNil(t, stream.SupportedSyncModes, "SupportedSyncModes should be initialized")
	})

	t.Run("correct data loading", func(t *testing.T) {
		jsonData := []byte(`{
			"name":"orders",
			"supportedSyncModes":["full_refresh","incremental"],
			"sourceDefinedPrimaryKey":[["id"]],
			"defaultCursorField":["updated_at"],
			"sourceDefinedCursor":true
		}`)

		var stream Stream

		err := json.Unmarshal(jsonData, &stream)

		assert.NoError(t, err)
		assert.Equal(t, "orders", stream.Name)
		assert.True(t, stream.SupportedSyncModes.Exists(FULLREFRESH), "Should contain full_refresh")
		assert.True(t, stream.SupportedSyncModes.Exists(INCREMENTAL), "Should contain incremental")
		assert.Equal(t, [][]string{{"id"}}, stream.SourceDefinedPrimaryKey)
		assert.Equal(t, []string{"updated_at"}, stream.DefaultCursorField)
		assert.True(t, stream.SourceDefinedCursor)
	})
}

func TestSelectedStreams(t *testing.T) {
	users := NewStream("users", "public").Wrap()
	users.Config.Selected = true
	orders := NewStream("orders", "public").Wrap()
	events := NewStream("events", "analytics").Wrap()
	events.Config.Selected = true

	catalog := &SyncCatalog{Streams: []*ConfiguredStream{users, orders, events}}
	assert.Equal(t, []string{"public.users", "analytics.events"}, catalog.SelectedStreams())

	empty := &SyncCatalog{}
	assert.Empty(t, empty.SelectedStreams())
}

func TestConfiguredStream_Validate(t *testing.T) {
	tests := []struct {
		name      string
		source    *Stream
		syncMode  SyncMode
		expectErr bool
	}{
		{
			name:      "supported mode passes",
			source:    NewStream("users", "public").WithSyncMode(FULLREFRESH, INCREMENTAL),
			syncMode:  INCREMENTAL,
			expectErr: false,
		},
		{
			name:      "unsupported mode fails",
			source:    NewStream("users", "public").WithSyncMode(FULLREFRESH),
			syncMode:  INCREMENTAL,
			expectErr: true,
		},
		{
			name:      "empty mode passes",
			source:    NewStream("users", "public").WithSyncMode(FULLREFRESH),
			syncMode:  "",
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configured := tt.source.Wrap()
			configured.Config.SyncMode = tt.syncMode

			err := configured.Validate(tt.source)
			if tt.expectErr {
				assert.Error(t, err, "Unsupported sync mode should be rejected")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStreamConfig_Clone(t *testing.T) {
	original := StreamConfig{
		Selected:            true,
		SyncMode:            INCREMENTAL,
		CursorField:         []string{"updated_at"},
		PrimaryKey:          [][]string{{"id"}},
		DestinationSyncMode: APPENDDEDUP,
		AliasName:           "users_v2",
	}

	clone := original.Clone()

	assert.Equal(t, original, clone, "Clone should be value-equal")

	// mutating the clone must not leak into the original
	clone.CursorField[0] = "created_at"
	clone.PrimaryKey[0][0] = "uuid"

	assert.Equal(t, "updated_at", original.CursorField[0], "Original cursor should be untouched")
	assert.Equal(t, "id", original.PrimaryKey[0][0], "Original primary key should be untouched")
}
