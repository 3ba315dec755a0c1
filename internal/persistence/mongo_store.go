package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrijr/aslflow/pkg/api"
)

// MongoDefinitionStore is a DefinitionStore backed by a MongoDB collection.
// Revisions are ordered by their ObjectID, which grows with insertion.
type MongoDefinitionStore struct {
	coll *mongo.Collection
}

// Ensure it implements DefinitionStore.
var _ DefinitionStore = (*MongoDefinitionStore)(nil)

type mongoDefinitionDoc struct {
	Name        string    `bson:"name"`
	Revision    string    `bson:"revision"`
	Fingerprint string    `bson:"fingerprint"`
	Document    string    `bson:"document"`
	CreatedAt   time.Time `bson:"created_at"`
}

// NewMongoDefinitionStore creates a Mongo-backed definition store and
// ensures its unique (name, revision) index.
// dbName defaults to "aslflow" if empty, collName defaults to "definitions".
func NewMongoDefinitionStore(ctx context.Context, client *mongo.Client, dbName, collName string) (*MongoDefinitionStore, error) {
	if dbName == "" {
		dbName = "aslflow"
	}
	if collName == "" {
		collName = "definitions"
	}

	coll := client.Database(dbName).Collection(collName)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "revision", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoDefinitionStore{coll: coll}, nil
}

func (s *MongoDefinitionStore) SaveDefinition(ctx context.Context, def api.StoredDefinition) error {
	doc := mongoDefinitionDoc{
		Name:        def.Name,
		Revision:    def.Revision,
		Fingerprint: def.Fingerprint,
		Document:    def.Document,
		CreatedAt:   def.CreatedAt.UTC(),
	}
	_, err := s.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrRevisionExists
	}
	return err
}

func (s *MongoDefinitionStore) GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error) {
	res := s.coll.FindOne(ctx, bson.M{"name": name, "revision": revision})
	return decodeMongoDefinition(res)
}

func (s *MongoDefinitionStore) GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error) {
	res := s.coll.FindOne(ctx, bson.M{"name": name},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}),
	)
	return decodeMongoDefinition(res)
}

func (s *MongoDefinitionStore) ListRevisions(ctx context.Context, name string) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{"name": name},
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetProjection(bson.D{{Key: "revision", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoDefinitionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	revs := make([]string, len(docs))
	for i, d := range docs {
		revs[i] = d.Revision
	}
	return revs, nil
}

func decodeMongoDefinition(res *mongo.SingleResult) (api.StoredDefinition, error) {
	var doc mongoDefinitionDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return api.StoredDefinition{}, ErrDefinitionNotFound
		}
		return api.StoredDefinition{}, err
	}
	return api.StoredDefinition{
		Name:        doc.Name,
		Revision:    doc.Revision,
		Fingerprint: doc.Fingerprint,
		Document:    doc.Document,
		CreatedAt:   doc.CreatedAt.UTC(),
	}, nil
}
