package db

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultDatabase = "prueba_tecnica_cobros"

// DatabaseName takes the database from the URI path, falling back to
// DefaultDatabase when the path is empty.
func DatabaseName(mongoURI string) (string, error) {
	uri, err := url.Parse(mongoURI)
	if err != nil {
		return "", err
	}
	if uri.Scheme != "mongodb" && uri.Scheme != "mongodb+srv" {
		return "", errors.New("mongo uri must use the mongodb or mongodb+srv scheme")
	}

	if name := strings.TrimPrefix(uri.Path, "/"); name != "" {
		return name, nil
	}
	return DefaultDatabase, nil
}

// ConnectToDB dials mongoURI and pings the server. The returned client
// must be disconnected by the caller.
func ConnectToDB(mongoURI string) (*mongo.Database, error) {
	dbName, err := DatabaseName(mongoURI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(mongoURI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client.Database(dbName), nil
}

func Disconnect(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Client().Disconnect(ctx); err != nil {
		log.Errorf("mongo disconnect: %v", err)
	}
}

// CreateIndexForField adds an ascending index on field; creating an
// existing index is a no-op on the server.
func CreateIndexForField(ctx context.Context, db *mongo.Database, collectionName, field string) error {
	collection := db.Collection(collectionName)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
	}

	name, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		return err
	}
	log.Debugf("index %s ready on %s", name, collectionName)
	return nil
}
