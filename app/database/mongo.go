package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joefazee/visaguide/models"
)

type MongoConfig struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DATABASE" env-default:"visaguide"`
	Collection string `env:"MONGO_COLLECTION" env-default:"countries"`
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return models.ErrMongoURINotConfigured
	}
	return nil
}

// NewMongo connects a client using registry for every encode and decode.
// The driver connects lazily, so reachability is only known after a Ping.
func NewMongo(ctx context.Context, c *MongoConfig, registry *bsoncodec.Registry) (*mongo.Client, *mongo.Database, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	opts := options.Client().ApplyURI(c.URI).SetAppName("visaguide")
	if registry != nil {
		opts.SetRegistry(registry)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	return client, client.Database(c.Database), nil
}
