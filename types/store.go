package types

type StoreType string

const (
	Postgres StoreType = "postgres"
	Mongo    StoreType = "mongo"
)

// StoreConfig selects and configures a connection store backend; the
// backend-specific payload stays opaque until the backend decodes it.
type StoreConfig struct {
	Type        StoreType `json:"type"`
	StoreConfig any       `json:"store"`
}
