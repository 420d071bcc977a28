package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/joefazee/visaguide/tests/suites"
)

type MongoStoreTestSuite struct {
	suites.MongoSuite
}

func TestMongoStore(t *testing.T) {
	s := new(MongoStoreTestSuite)
	s.Registry = NewRegistry()
	suite.Run(t, s)
}

func (s *MongoStoreTestSuite) TestContract() {
	runStoreContract(s.T(), func(t *testing.T) Store {
		s.Require().NoError(s.DB.Drop(context.Background()))
		store, err := NewMongoStore(context.Background(), s.DB, DefaultCollection, nil)
		s.Require().NoError(err)
		return store
	})
}

func (s *MongoStoreTestSuite) TestPing() {
	store, err := NewMongoStore(context.Background(), s.DB, "", nil)
	s.Require().NoError(err)
	s.NoError(store.Ping(context.Background()))
	s.Equal(BackendMongo, store.Name())
}

type PostgresStoreTestSuite struct {
	suites.PostgresSuite
}

func TestPostgresStore(t *testing.T) {
	suite.Run(t, new(PostgresStoreTestSuite))
}

func (s *PostgresStoreTestSuite) TestContract() {
	runStoreContract(s.T(), func(t *testing.T) Store {
		s.Require().NoError(s.DB.Exec(`TRUNCATE TABLE countries`).Error)
		return NewPostgresStore(s.DB, nil)
	})
}

func (s *PostgresStoreTestSuite) TestPing() {
	store := NewPostgresStore(s.DB, nil)
	s.NoError(store.Ping(context.Background()))
}
