package store

import (
	"context"
	"fmt"

	"github.com/lakedeck/lakedeck/crypto"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
)

type Config interface {
	Validate() error
}

// Store persists connections. Backends register themselves in
// RegisteredStores; NewStore resolves the configured one.
type Store interface {
	GetConfigRef() Config
	Type() types.StoreType
	// Check sets up the backend connection and prepares storage; it must be
	// called before any other operation.
	Check(ctx context.Context) error
	GetConnection(ctx context.Context, connectionID string) (*types.Connection, error)
	ListConnections(ctx context.Context) ([]*types.Connection, error)
	// SaveConnection upserts by connection ID.
	SaveConnection(ctx context.Context, connection *types.Connection) error
	DeleteConnection(ctx context.Context, connectionID string) error
	Close(ctx context.Context) error
}

type NewFunc func() Store

var RegisteredStores = map[types.StoreType]NewFunc{}

// NewStore resolves the configured backend, decodes its config and checks
// connectivity.
func NewStore(ctx context.Context, config *types.StoreConfig) (Store, error) {
	newfunc, found := RegisteredStores[config.Type]
	if !found {
		return nil, fmt.Errorf("invalid store type has been passed [%s], registered types: %v",
			config.Type, utils.MapKeys(RegisteredStores))
	}

	backend := newfunc()
	if err := utils.Unmarshal(config.StoreConfig, backend.GetConfigRef()); err != nil {
		return nil, err
	}
	if err := backend.GetConfigRef().Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s store config: %s", config.Type, err)
	}

	if err := backend.Check(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect %s store: %s", config.Type, err)
	}

	return backend, nil
}

// sealSecrets encrypts the connection's source and destination configs
// before they hit storage; a shallow copy keeps the caller's value plaintext.
func sealSecrets(connection *types.Connection) (*types.Connection, error) {
	sealed := *connection

	var err error
	if sealed.SourceConfig != "" {
		if sealed.SourceConfig, err = crypto.EncryptJSONString(sealed.SourceConfig); err != nil {
			return nil, fmt.Errorf("failed to encrypt source config: %s", err)
		}
	}
	if sealed.DestinationConfig != "" {
		if sealed.DestinationConfig, err = crypto.EncryptJSONString(sealed.DestinationConfig); err != nil {
			return nil, fmt.Errorf("failed to encrypt destination config: %s", err)
		}
	}

	return &sealed, nil
}

func openSecrets(connection *types.Connection) error {
	var err error
	if connection.SourceConfig != "" {
		if connection.SourceConfig, err = crypto.DecryptJSONString(connection.SourceConfig); err != nil {
			return fmt.Errorf("failed to decrypt source config: %s", err)
		}
	}
	if connection.DestinationConfig != "" {
		if connection.DestinationConfig, err = crypto.DecryptJSONString(connection.DestinationConfig); err != nil {
			return fmt.Errorf("failed to decrypt destination config: %s", err)
		}
	}

	return nil
}
