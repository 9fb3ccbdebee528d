package types

// SyncCatalog is the configured stream list carried by a connection.
type SyncCatalog struct {
	Streams []*ConfiguredStream `json:"streams,omitempty" validate:"omitempty,dive"`
}

// GetWrappedCatalog wraps discovered streams into a catalog with empty
// configurations, ready for derivation.
func GetWrappedCatalog(streams []*Stream) *SyncCatalog {
	catalog := &SyncCatalog{
		Streams: []*ConfiguredStream{},
	}

	for _, stream := range streams {
		catalog.Streams = append(catalog.Streams, stream.Wrap())
	}

	return catalog
}

// SelectedStreams returns the IDs of streams marked selected, in catalog order.
func (c *SyncCatalog) SelectedStreams() []string {
	selected := []string{}
	for _, stream := range c.Streams {
		if stream.Config.Selected {
			selected = append(selected, stream.ID())
		}
	}

	return selected
}
