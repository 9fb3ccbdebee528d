package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

type SyncMode string

const (
	FULLREFRESH SyncMode = "full_refresh"
	INCREMENTAL SyncMode = "incremental"
)

type DestinationSyncMode string

const (
	OVERWRITE   DestinationSyncMode = "overwrite"
	APPEND      DestinationSyncMode = "append"
	APPENDDEDUP DestinationSyncMode = "append_dedup"
)

// Stream is the source-provided descriptor of a discoverable stream. It is
// read-only input from the source system; form edits MUST NOT mutate it.
type Stream struct {
	Name                    string         `json:"name"`
	Namespace               string         `json:"namespace,omitempty"`
	JSONSchema              map[string]any `json:"jsonSchema,omitempty"`
	SupportedSyncModes      *Set[SyncMode] `json:"supportedSyncModes,omitempty"`
	SourceDefinedCursor     bool           `json:"sourceDefinedCursor,omitempty"`
	DefaultCursorField      []string       `json:"defaultCursorField,omitempty"`
	SourceDefinedPrimaryKey [][]string     `json:"sourceDefinedPrimaryKey,omitempty"`
}

func NewStream(name, namespace string) *Stream {
	return &Stream{
		Name:               name,
		Namespace:          namespace,
		SupportedSyncModes: NewSet[SyncMode](),
	}
}

func (s *Stream) ID() string {
	if s.Namespace == "" {
		return s.Name
	}

	return fmt.Sprintf("%s.%s", s.Namespace, s.Name)
}

func (s *Stream) WithSyncMode(modes ...SyncMode) *Stream {
	s.SupportedSyncModes.Insert(modes...)

	return s
}

func (s *Stream) WithDefaultCursorField(fields ...string) *Stream {
	s.DefaultCursorField = append(s.DefaultCursorField, fields...)

	return s
}

func (s *Stream) WithSourceDefinedCursor() *Stream {
	s.SourceDefinedCursor = true

	return s
}

func (s *Stream) WithPrimaryKey(keys ...[]string) *Stream {
	s.SourceDefinedPrimaryKey = append(s.SourceDefinedPrimaryKey, keys...)

	return s
}

// Wrap pairs the stream with an empty configuration; the deriver fills it.
func (s *Stream) Wrap() *ConfiguredStream {
	return &ConfiguredStream{
		Stream: s,
	}
}

// UnmarshalJSON initializes the set fields when the payload omits them,
// to prevent nil pointer panics later.
func (s *Stream) UnmarshalJSON(data []byte) error {
	type Alias Stream
	if err := json.Unmarshal(data, (*Alias)(s)); err != nil {
		return err
	}

	if s.SupportedSyncModes == nil {
		s.SupportedSyncModes = NewSet[SyncMode]()
	}

	return nil
}
