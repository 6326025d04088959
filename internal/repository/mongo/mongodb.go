package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// StartDB connects to MongoDB, verifies the connection and prepares the products collection.
// The caller owns the returned client and must disconnect it.
func StartDB(ctx context.Context, conf config.Mongo) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		slog.Error("failed to initialize MongoDB connection", slog.Any("err", err))
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	slog.Info("MongoDB connection done", slog.String("database", conf.Database))

	coll := client.Database(conf.Database).Collection(CollectionName)
	if err := EnsureIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	slog.Info("MongoDB indexes ready", slog.String("collection", CollectionName))

	return client, coll, nil
}

// EnsureIndexes creates the index backing the newest-first listing.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create products index: %w", err)
	}
	return nil
}
