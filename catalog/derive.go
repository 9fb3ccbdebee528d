package catalog

import (
	"github.com/lakedeck/lakedeck/types"
)

// DeriveInitialCatalog fills in per-stream defaults for a freshly opened
// form. It is pure: the input catalog and its streams are never mutated, and
// derivation is deterministic and independent across streams.
//
// Per stream:
//  1. a stream reporting no supported sync modes is treated as
//     full-refresh only;
//  2. an already-chosen sync mode is kept, even when the source no longer
//     reports it (validation surfaces the mismatch, not derivation);
//  3. otherwise incremental is selected when supported, keeping a non-empty
//     cursor field or falling back to the stream's default cursor;
//  4. otherwise the first supported mode is selected.
func DeriveInitialCatalog(input *types.SyncCatalog) *types.SyncCatalog {
	if input == nil {
		return &types.SyncCatalog{Streams: []*types.ConfiguredStream{}}
	}

	derived := &types.SyncCatalog{
		Streams: make([]*types.ConfiguredStream, 0, len(input.Streams)),
	}
	for _, stream := range input.Streams {
		derived.Streams = append(derived.Streams, deriveStream(stream))
	}

	return derived
}

func deriveStream(input *types.ConfiguredStream) *types.ConfiguredStream {
	stream := input.Stream
	config := input.Config.Clone()

	if stream.SupportedSyncModes.Len() == 0 {
		copied := *stream
		copied.SupportedSyncModes = types.NewSet(types.FULLREFRESH)
		stream = &copied
	}

	switch {
	case config.SyncMode != "":
		// keep the previous choice untouched
	case stream.SupportedSyncModes.Exists(types.INCREMENTAL):
		config.SyncMode = types.INCREMENTAL
		if len(config.CursorField) == 0 {
			config.CursorField = append([]string(nil), stream.DefaultCursorField...)
		}
	default:
		config.SyncMode = stream.SupportedSyncModes.Array()[0]
	}

	return &types.ConfiguredStream{
		Stream: stream,
		Config: config,
	}
}
