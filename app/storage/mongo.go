package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/models"
)

// DefaultCollection holds one document per country.
const DefaultCollection = "countries"

// MongoStore keeps each country as a single document with embedded
// collections. Ids are ObjectID hex strings.
type MongoStore struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore binds the store to a collection and ensures the unique
// slug index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database, collection string, m *metrics.Metrics) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	s := &MongoStore{coll: db.Collection(collection), metrics: m}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, unavailable(err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "region", Value: 1}}, Options: options.Index().SetName("published_region")},
	})
	return err
}

func (s *MongoStore) Name() string { return BackendMongo }

// Ping checks the primary is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return unavailable(s.coll.Database().Client().Ping(ctx, nil))
}

// Get returns a country by ID
func (s *MongoStore) Get(ctx context.Context, id string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "get", time.Now())
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetBySlug returns a country by slug
func (s *MongoStore) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "get_by_slug", time.Now())
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Country, error) {
	var country models.Country
	if err := s.coll.FindOne(ctx, filter).Decode(&country); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrRecordNotFound
		}
		return nil, unavailable(err)
	}
	country.Normalize()
	return &country, nil
}

// nameCollation orders names case-insensitively, matching the file store.
var nameCollation = &options.Collation{Locale: "en", Strength: 2}

// List returns countries matching the filter
func (s *MongoStore) List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "list", time.Now())

	field, desc := filter.SortKey()
	order := 1
	if desc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: order}, {Key: "_id", Value: 1}}).
		SetCollation(nameCollation)
	if filter != nil {
		if filter.Offset > 0 {
			opts.SetSkip(int64(filter.Offset))
		}
		if filter.Limit > 0 {
			opts.SetLimit(int64(filter.Limit))
		}
	}

	cursor, err := s.coll.Find(ctx, buildMongoFilter(filter), opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	countries := []models.Country{}
	if err := cursor.All(ctx, &countries); err != nil {
		return nil, unavailable(err)
	}
	for i := range countries {
		countries[i].Normalize()
	}
	return countries, nil
}

// Count returns the number of countries matching the filter
func (s *MongoStore) Count(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "count", time.Now())

	n, err := s.coll.CountDocuments(ctx, buildMongoFilter(filter))
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

// Put replaces the document with the country's id, inserting it when absent
func (s *MongoStore) Put(ctx context.Context, country *models.Country) (string, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "put", time.Now())

	country.Normalize()
	if country.ID == "" {
		country.ID = primitive.NewObjectID().Hex()
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": country.ID}, country, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", models.ErrDuplicateSlug
		}
		return "", unavailable(err)
	}
	return country.ID, nil
}

// Delete removes a country by ID
func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	defer s.metrics.ObserveStorage(BackendMongo, "delete", time.Now())

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, unavailable(err)
	}
	return res.DeletedCount > 0, nil
}

func buildMongoFilter(filter *models.CountryFilter) bson.M {
	doc := bson.M{}
	if filter == nil {
		return doc
	}
	if filter.Region != nil {
		doc["region"] = string(*filter.Region)
	}
	if filter.Published != nil {
		doc["published"] = *filter.Published
	}
	if filter.Featured != nil {
		doc["featured"] = *filter.Featured
	}
	if filter.VisaRequired != nil {
		if *filter.VisaRequired {
			doc["visa_required"] = true
		} else {
			doc["visa_required"] = bson.M{"$ne": true}
		}
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		doc["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"summary": pattern},
		}
	}
	return doc
}
