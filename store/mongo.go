package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils/logger"
)

const connectionsCollection = "connections"

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("empty mongo uri")
	}
	if c.Database == "" {
		c.Database = "lakedeck"
	}

	return nil
}

// mongoConnection is the stored document; the connection embeds under its
// own key so the _id stays the connection ID.
type mongoConnection struct {
	ID         string            `bson:"_id"`
	Connection *types.Connection `bson:"connection"`
}

// unwrap returns the embedded connection with its secrets opened. Documents
// written by other tools can lack the connection body; those fail here
// instead of panicking downstream.
func (d *mongoConnection) unwrap() (*types.Connection, error) {
	if d.Connection == nil {
		return nil, fmt.Errorf("connection document %s has no connection body", d.ID)
	}
	if err := openSecrets(d.Connection); err != nil {
		return nil, err
	}

	return d.Connection, nil
}

type MongoStore struct {
	config MongoConfig
	client *mongo.Client
}

func (m *MongoStore) GetConfigRef() Config {
	return &m.config
}

func (m *MongoStore) Type() types.StoreType {
	return types.Mongo
}

func (m *MongoStore) Check(ctx context.Context) error {
	opts := options.Client()
	opts.ApplyURI(m.config.URI)
	conn, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect mongo: %s", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx, opts.ReadPreference); err != nil {
		return fmt.Errorf("failed to ping mongo: %s", err)
	}

	m.client = conn
	logger.Infof("Connected to mongo store, database %s", m.config.Database)

	return nil
}

func (m *MongoStore) collection() *mongo.Collection {
	return m.client.Database(m.config.Database).Collection(connectionsCollection)
}

func (m *MongoStore) GetConnection(ctx context.Context, connectionID string) (*types.Connection, error) {
	var doc mongoConnection
	err := m.collection().FindOne(ctx, bson.M{"_id": connectionID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("connection %s not found", connectionID)
		}
		return nil, fmt.Errorf("failed to read connection %s: %s", connectionID, err)
	}

	return doc.unwrap()
}

func (m *MongoStore) ListConnections(ctx context.Context) ([]*types.Connection, error) {
	cursor, err := m.collection().Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"connection.createdat": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %s", err)
	}
	defer cursor.Close(ctx)

	var connections []*types.Connection
	for cursor.Next(ctx) {
		var doc mongoConnection
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode connection document: %s", err)
		}
		connection, err := doc.unwrap()
		if err != nil {
			return nil, err
		}
		connections = append(connections, connection)
	}

	return connections, cursor.Err()
}

func (m *MongoStore) SaveConnection(ctx context.Context, connection *types.Connection) error {
	sealed, err := sealSecrets(connection)
	if err != nil {
		return err
	}
	if sealed.CreatedAt.IsZero() {
		sealed.CreatedAt = time.Now().UTC()
	}
	if sealed.UpdatedAt.IsZero() {
		sealed.UpdatedAt = sealed.CreatedAt
	}

	_, err = m.collection().ReplaceOne(ctx,
		bson.M{"_id": sealed.ConnectionID},
		mongoConnection{ID: sealed.ConnectionID, Connection: sealed},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save connection %s: %s", connection.ConnectionID, err)
	}

	return nil
}

func (m *MongoStore) DeleteConnection(ctx context.Context, connectionID string) error {
	result, err := m.collection().DeleteOne(ctx, bson.M{"_id": connectionID})
	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %s", connectionID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("connection %s not found", connectionID)
	}

	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}

	return m.client.Disconnect(ctx)
}

func init() {
	RegisteredStores[types.Mongo] = func() Store {
		return &MongoStore{}
	}
}
