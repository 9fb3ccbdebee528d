package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils/logger"
)

const (
	createConnectionsTable = `CREATE TABLE IF NOT EXISTS connections (
		connection_id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		prefix TEXT NOT NULL DEFAULT '',
		namespace_definition TEXT NOT NULL DEFAULT '',
		namespace_format TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		source_config TEXT NOT NULL DEFAULT '',
		destination_config TEXT NOT NULL DEFAULT '',
		schedule JSONB,
		sync_catalog JSONB,
		operations JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	upsertConnection = `INSERT INTO connections (
		connection_id, workspace_id, name, prefix, namespace_definition,
		namespace_format, status, source_config, destination_config,
		schedule, sync_catalog, operations, created_at, updated_at
	) VALUES (
		:connection_id, :workspace_id, :name, :prefix, :namespace_definition,
		:namespace_format, :status, :source_config, :destination_config,
		:schedule, :sync_catalog, :operations, :created_at, :updated_at
	) ON CONFLICT (connection_id) DO UPDATE SET
		workspace_id = EXCLUDED.workspace_id,
		name = EXCLUDED.name,
		prefix = EXCLUDED.prefix,
		namespace_definition = EXCLUDED.namespace_definition,
		namespace_format = EXCLUDED.namespace_format,
		status = EXCLUDED.status,
		source_config = EXCLUDED.source_config,
		destination_config = EXCLUDED.destination_config,
		schedule = EXCLUDED.schedule,
		sync_catalog = EXCLUDED.sync_catalog,
		operations = EXCLUDED.operations,
		updated_at = EXCLUDED.updated_at`

	selectConnection  = `SELECT * FROM connections WHERE connection_id = $1`
	selectConnections = `SELECT * FROM connections ORDER BY created_at`
	deleteConnection  = `DELETE FROM connections WHERE connection_id = $1`
)

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode,omitempty"`
}

func (c *PostgresConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("empty host name")
	} else if strings.Contains(c.Host, "http") {
		return fmt.Errorf("host should not contain http or https")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: must be between 1 and 65535")
	}
	if c.Database == "" {
		return fmt.Errorf("empty database name")
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}

	return nil
}

func (c *PostgresConfig) URI() string {
	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}

	return uri.String()
}

// connectionRow is the flat table shape; catalog, schedule and operations
// live in JSONB columns.
type connectionRow struct {
	ConnectionID        string         `db:"connection_id"`
	WorkspaceID         string         `db:"workspace_id"`
	Name                string         `db:"name"`
	Prefix              string         `db:"prefix"`
	NamespaceDefinition string         `db:"namespace_definition"`
	NamespaceFormat     string         `db:"namespace_format"`
	Status              string         `db:"status"`
	SourceConfig        string         `db:"source_config"`
	DestinationConfig   string         `db:"destination_config"`
	Schedule            sql.NullString `db:"schedule"`
	SyncCatalog         sql.NullString `db:"sync_catalog"`
	Operations          sql.NullString `db:"operations"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type PostgresStore struct {
	config PostgresConfig
	client *sqlx.DB
}

func (p *PostgresStore) GetConfigRef() Config {
	return &p.config
}

func (p *PostgresStore) Type() types.StoreType {
	return types.Postgres
}

func (p *PostgresStore) Check(ctx context.Context) error {
	client, err := sqlx.Open("pgx", p.config.URI())
	if err != nil {
		return fmt.Errorf("failed to connect database: %s", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %s", err)
	}

	if _, err := client.ExecContext(ctx, createConnectionsTable); err != nil {
		return fmt.Errorf("failed to prepare connections table: %s", err)
	}

	p.client = client
	logger.Infof("Connected to postgres store at %s:%d/%s", p.config.Host, p.config.Port, p.config.Database)

	return nil
}

func (p *PostgresStore) GetConnection(ctx context.Context, connectionID string) (*types.Connection, error) {
	var row connectionRow
	if err := p.client.GetContext(ctx, &row, selectConnection, connectionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("connection %s not found", connectionID)
		}
		return nil, fmt.Errorf("failed to read connection %s: %s", connectionID, err)
	}

	return rowToConnection(&row)
}

func (p *PostgresStore) ListConnections(ctx context.Context) ([]*types.Connection, error) {
	var rows []connectionRow
	if err := p.client.SelectContext(ctx, &rows, selectConnections); err != nil {
		return nil, fmt.Errorf("failed to list connections: %s", err)
	}

	connections := make([]*types.Connection, 0, len(rows))
	for idx := range rows {
		connection, err := rowToConnection(&rows[idx])
		if err != nil {
			return nil, err
		}
		connections = append(connections, connection)
	}

	return connections, nil
}

func (p *PostgresStore) SaveConnection(ctx context.Context, connection *types.Connection) error {
	sealed, err := sealSecrets(connection)
	if err != nil {
		return err
	}

	row, err := connectionToRow(sealed)
	if err != nil {
		return err
	}

	if _, err := p.client.NamedExecContext(ctx, upsertConnection, row); err != nil {
		return fmt.Errorf("failed to save connection %s: %s", connection.ConnectionID, err)
	}

	return nil
}

func (p *PostgresStore) DeleteConnection(ctx context.Context, connectionID string) error {
	result, err := p.client.ExecContext(ctx, deleteConnection, connectionID)
	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %s", connectionID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("connection %s not found", connectionID)
	}

	return nil
}

func (p *PostgresStore) Close(_ context.Context) error {
	if p.client == nil {
		return nil
	}

	return p.client.Close()
}

func connectionToRow(connection *types.Connection) (*connectionRow, error) {
	row := &connectionRow{
		ConnectionID:        connection.ConnectionID,
		WorkspaceID:         connection.WorkspaceID,
		Name:                connection.Name,
		Prefix:              connection.Prefix,
		NamespaceDefinition: string(connection.NamespaceDefinition),
		NamespaceFormat:     connection.NamespaceFormat,
		Status:              string(connection.Status),
		SourceConfig:        connection.SourceConfig,
		DestinationConfig:   connection.DestinationConfig,
		CreatedAt:           connection.CreatedAt,
		UpdatedAt:           connection.UpdatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}

	marshalInto := func(value any, target *sql.NullString, what string) error {
		if value == nil {
			return nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s for %s: %s", what, connection.ConnectionID, err)
		}
		target.String = string(data)
		target.Valid = true
		return nil
	}

	if connection.Schedule != nil {
		if err := marshalInto(connection.Schedule, &row.Schedule, "schedule"); err != nil {
			return nil, err
		}
	}
	if connection.SyncCatalog != nil {
		if err := marshalInto(connection.SyncCatalog, &row.SyncCatalog, "sync catalog"); err != nil {
			return nil, err
		}
	}
	if connection.Operations != nil {
		if err := marshalInto(connection.Operations, &row.Operations, "operations"); err != nil {
			return nil, err
		}
	}

	return row, nil
}

func rowToConnection(row *connectionRow) (*types.Connection, error) {
	connection := &types.Connection{
		ConnectionID:        row.ConnectionID,
		WorkspaceID:         row.WorkspaceID,
		Name:                row.Name,
		Prefix:              row.Prefix,
		NamespaceDefinition: types.NamespaceDefinition(row.NamespaceDefinition),
		NamespaceFormat:     row.NamespaceFormat,
		Status:              types.ConnectionStatus(row.Status),
		SourceConfig:        row.SourceConfig,
		DestinationConfig:   row.DestinationConfig,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	unmarshalFrom := func(source sql.NullString, target any, what string) error {
		if !source.Valid || source.String == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(source.String), target); err != nil {
			return fmt.Errorf("failed to unmarshal %s for %s: %s", what, row.ConnectionID, err)
		}
		return nil
	}

	if err := unmarshalFrom(row.Schedule, &connection.Schedule, "schedule"); err != nil {
		return nil, err
	}
	if err := unmarshalFrom(row.SyncCatalog, &connection.SyncCatalog, "sync catalog"); err != nil {
		return nil, err
	}
	if err := unmarshalFrom(row.Operations, &connection.Operations, "operations"); err != nil {
		return nil, err
	}

	if err := openSecrets(connection); err != nil {
		return nil, err
	}

	return connection, nil
}

func init() {
	RegisteredStores[types.Postgres] = func() Store {
		return &PostgresStore{}
	}
}
