package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes は起動時に必要なインデックスを作成する。既存のものはそのまま残る。
func EnsureIndexes(ctx context.Context, db *mongo.Database, establishments, pending, reviews string) error {
	if _, err := db.Collection(establishments).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}); err != nil {
		return translate(err, "")
	}
	if _, err := db.Collection(pending).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	}); err != nil {
		return translate(err, "")
	}
	if _, err := db.Collection(reviews).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "establishmentId", Value: 1}, {Key: "approved", Value: 1}}},
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "createdAt", Value: 1}}},
		{
			Keys:    bson.D{{Key: "pendingEstablishmentId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}); err != nil {
		return translate(err, "")
	}
	return nil
}
