package types

import (
	"fmt"
)

// StreamConfig is the mutable per-stream form state layered over a Stream.
type StreamConfig struct {
	Selected            bool                `json:"selected"`
	SyncMode            SyncMode            `json:"syncMode,omitempty"`
	CursorField         []string            `json:"cursorField,omitempty"`
	PrimaryKey          [][]string          `json:"primaryKey,omitempty"`
	DestinationSyncMode DestinationSyncMode `json:"destinationSyncMode,omitempty"`
	AliasName           string              `json:"aliasName,omitempty"`
}

// Clone deep-copies the config so patches never alias the original slices.
func (c StreamConfig) Clone() StreamConfig {
	clone := c
	clone.CursorField = append([]string(nil), c.CursorField...)
	clone.PrimaryKey = nil
	for _, path := range c.PrimaryKey {
		clone.PrimaryKey = append(clone.PrimaryKey, append([]string(nil), path...))
	}

	return clone
}

// ConfiguredStream pairs a source stream with its configuration.
type ConfiguredStream struct {
	Stream *Stream      `json:"stream,omitempty"`
	Config StreamConfig `json:"config"`
}

func (s *ConfiguredStream) ID() string {
	return s.Stream.ID()
}

// Validate checks the configuration against the source stream capabilities.
func (s *ConfiguredStream) Validate(source *Stream) error {
	if s.Config.SyncMode != "" && !source.SupportedSyncModes.Exists(s.Config.SyncMode) {
		return fmt.Errorf("invalid sync mode[%s]; valid are %v", s.Config.SyncMode, source.SupportedSyncModes)
	}

	return nil
}
