package catalog

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/lakedeck/lakedeck/types"
)

// ConfigFingerprint returns a structural hash of a stream configuration;
// equal fingerprints mean the configurations are field-for-field identical.
func ConfigFingerprint(config types.StreamConfig) (uint64, error) {
	return hashstructure.Hash(config, nil)
}

// CatalogChanged reports whether any stream configuration differs between
// the two catalogs, or whether streams were added or removed.
func CatalogChanged(before, after *types.SyncCatalog) (bool, error) {
	if before == nil || after == nil {
		return before != after, nil
	}
	if len(before.Streams) != len(after.Streams) {
		return true, nil
	}

	fingerprints := make(map[string]uint64, len(before.Streams))
	for _, stream := range before.Streams {
		hash, err := ConfigFingerprint(stream.Config)
		if err != nil {
			return false, fmt.Errorf("failed to fingerprint stream %s: %s", stream.ID(), err)
		}
		fingerprints[stream.ID()] = hash
	}

	for _, stream := range after.Streams {
		previous, exists := fingerprints[stream.ID()]
		if !exists {
			return true, nil
		}
		hash, err := ConfigFingerprint(stream.Config)
		if err != nil {
			return false, fmt.Errorf("failed to fingerprint stream %s: %s", stream.ID(), err)
		}
		if hash != previous {
			return true, nil
		}
	}

	return false, nil
}
