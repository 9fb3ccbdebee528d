package catalog

import (
	"github.com/lakedeck/lakedeck/types"
)

// StreamPatch is a partial stream configuration; nil fields are left alone
// when the patch is applied.
type StreamPatch struct {
	Selected            *bool
	SyncMode            *types.SyncMode
	CursorField         []string
	PrimaryKey          [][]string
	DestinationSyncMode *types.DestinationSyncMode
	AliasName           *string
}

// ApplyTo merges the patch into a copy of the config; the input config and
// the patch's own slices stay unshared.
func (p StreamPatch) ApplyTo(config types.StreamConfig) types.StreamConfig {
	merged := config.Clone()

	if p.Selected != nil {
		merged.Selected = *p.Selected
	}
	if p.SyncMode != nil {
		merged.SyncMode = *p.SyncMode
	}
	if p.CursorField != nil {
		merged.CursorField = append([]string(nil), p.CursorField...)
	}
	if p.PrimaryKey != nil {
		merged.PrimaryKey = nil
		for _, path := range p.PrimaryKey {
			merged.PrimaryKey = append(merged.PrimaryKey, append([]string(nil), path...))
		}
	}
	if p.DestinationSyncMode != nil {
		merged.DestinationSyncMode = *p.DestinationSyncMode
	}
	if p.AliasName != nil {
		merged.AliasName = *p.AliasName
	}

	return merged
}

// BulkEditSession holds transient editing state: the selected stream IDs and
// a pending partial patch. The session is active while any stream is
// selected; nothing is persisted, and applying or cancelling resets it.
// A session belongs to a single editing surface; it is not safe for
// concurrent use.
type BulkEditSession struct {
	selected map[string]struct{}
	patch    StreamPatch
}

func NewBulkEditSession() *BulkEditSession {
	return &BulkEditSession{
		selected: make(map[string]struct{}),
	}
}

func (s *BulkEditSession) Active() bool {
	return len(s.selected) > 0
}

func (s *BulkEditSession) IsSelected(streamID string) bool {
	_, selected := s.selected[streamID]
	return selected
}

func (s *BulkEditSession) Select(streamIDs ...string) {
	for _, id := range streamIDs {
		s.selected[id] = struct{}{}
	}
}

func (s *BulkEditSession) Deselect(streamIDs ...string) {
	for _, id := range streamIDs {
		delete(s.selected, id)
	}
}

func (s *BulkEditSession) Toggle(streamID string) {
	if s.IsSelected(streamID) {
		s.Deselect(streamID)
		return
	}
	s.Select(streamID)
}

// SelectAll marks every stream of the catalog selected.
func (s *BulkEditSession) SelectAll(catalog *types.SyncCatalog) {
	for _, stream := range catalog.Streams {
		s.Select(stream.ID())
	}
}

func (s *BulkEditSession) Clear() {
	s.selected = make(map[string]struct{})
}

func (s *BulkEditSession) SetPatch(patch StreamPatch) {
	s.patch = patch
}

func (s *BulkEditSession) Patch() StreamPatch {
	return s.patch
}

// Apply merges the pending patch into the configuration of every selected
// stream and hands the updated list to the updater. The input slice is not
// mutated: edited entries are fresh ConfiguredStream values, unselected
// entries keep their original pointers. The session resets afterwards.
func (s *BulkEditSession) Apply(streams []*types.ConfiguredStream, updater func([]*types.ConfiguredStream)) {
	updated := make([]*types.ConfiguredStream, 0, len(streams))
	for _, stream := range streams {
		if !s.IsSelected(stream.ID()) {
			updated = append(updated, stream)
			continue
		}
		updated = append(updated, &types.ConfiguredStream{
			Stream: stream.Stream,
			Config: s.patch.ApplyTo(stream.Config),
		})
	}

	updater(updated)
	s.reset()
}

// Cancel discards the pending patch and selection, ending the session.
func (s *BulkEditSession) Cancel() {
	s.reset()
}

func (s *BulkEditSession) reset() {
	s.selected = make(map[string]struct{})
	s.patch = StreamPatch{}
}
