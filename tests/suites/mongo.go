package suites

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joefazee/visaguide/app/database"
)

type MongoContainer struct {
	testcontainers.Container
	URI string
}

func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	const port = "27017/tcp"

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{port},
		WaitingFor: wait.ForListeningPort(port).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mongo container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       fmt.Sprintf("mongodb://%s:%s", host, mappedPort.Port()),
	}, nil
}

// MongoSuite starts one container per suite and drops the database
// before every test. Set Registry before SetupSuite runs to install
// custom codecs.
type MongoSuite struct {
	suite.Suite
	Container *MongoContainer
	Client    *mongo.Client
	DB        *mongo.Database
	Registry  *bsoncodec.Registry
}

func (s *MongoSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping mongo integration tests in short mode")
	}

	ctx := context.Background()
	container, err := NewMongoContainer(ctx)
	if err != nil {
		s.T().Fatalf("Failed to create mongo container: %v", err)
	}
	s.Container = container

	client, db, err := database.NewMongo(ctx, &database.MongoConfig{
		URI:      container.URI,
		Database: "visaguide_test",
	}, s.Registry)
	if err != nil {
		s.T().Fatalf("Failed to connect to mongo: %v", err)
	}
	s.Client, s.DB = client, db
}

func (s *MongoSuite) TearDownSuite() {
	ctx := context.Background()
	if s.Client != nil {
		_ = s.Client.Disconnect(ctx)
	}
	if s.Container != nil {
		_ = s.Container.Terminate(ctx)
	}
}

func (s *MongoSuite) SetupTest() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Drop(context.Background()))
	}
}
