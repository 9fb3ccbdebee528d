package types

import "time"

type ScheduleTimeUnit string

const (
	MINUTES ScheduleTimeUnit = "minutes"
	HOURS   ScheduleTimeUnit = "hours"
	DAYS    ScheduleTimeUnit = "days"
	WEEKS   ScheduleTimeUnit = "weeks"
	MONTHS  ScheduleTimeUnit = "months"
)

// Schedule is the sync cadence; a nil *Schedule on a connection means manual.
type Schedule struct {
	Units    int64            `json:"units" validate:"required,gt=0"`
	TimeUnit ScheduleTimeUnit `json:"timeUnit" validate:"required,oneof=minutes hours days weeks months"`
}

type NamespaceDefinition string

const (
	NamespaceSource       NamespaceDefinition = "source"
	NamespaceDestination  NamespaceDefinition = "destination"
	NamespaceCustomFormat NamespaceDefinition = "customformat"
)

type ConnectionStatus string

const (
	ConnectionActive     ConnectionStatus = "active"
	ConnectionInactive   ConnectionStatus = "inactive"
	ConnectionDeprecated ConnectionStatus = "deprecated"
)

// Connection is the persisted configuration entity tying a source catalog to
// destination behavior: which streams sync, how often, into which namespace,
// and through which operations.
type Connection struct {
	ConnectionID        string              `json:"connectionId"`
	WorkspaceID         string              `json:"workspaceId,omitempty"`
	Name                string              `json:"name,omitempty"`
	Prefix              string              `json:"prefix,omitempty"`
	NamespaceDefinition NamespaceDefinition `json:"namespaceDefinition,omitempty"`
	NamespaceFormat     string              `json:"namespaceFormat,omitempty"`
	Schedule            *Schedule           `json:"schedule,omitempty"`
	SyncCatalog         *SyncCatalog        `json:"syncCatalog,omitempty"`
	Operations          []*Operation        `json:"operations,omitempty"`
	Status              ConnectionStatus    `json:"status,omitempty"`
	SourceConfig        string              `json:"sourceConfig,omitempty"`
	DestinationConfig   string              `json:"destinationConfig,omitempty"`
	CreatedAt           time.Time           `json:"createdAt,omitempty"`
	UpdatedAt           time.Time           `json:"updatedAt,omitempty"`
}

// DestinationCapabilities flags what the destination definition supports;
// validation consults it before accepting normalization or dbt operations.
type DestinationCapabilities struct {
	SupportsNormalization bool `json:"supportsNormalization"`
	SupportsDbt           bool `json:"supportsDbt"`
}
