package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/reststop-ratings/api/internal/infrastructure/messenger"
)

// NotificationFailureRepository は送信できなかった管理者通知を保存する。
type NotificationFailureRepository struct {
	collection *mongo.Collection
}

func NewNotificationFailureRepository(db *mongo.Database, collection string) *NotificationFailureRepository {
	return &NotificationFailureRepository{collection: db.Collection(collection)}
}

func (r *NotificationFailureRepository) SaveFailure(ctx context.Context, failure messenger.Failure) error {
	now := time.Now().UTC()
	doc := bson.M{
		"target": "admin_notification",
		"payload": bson.M{
			"pendingEstablishmentId": failure.Notice.PendingID,
			"name":                   failure.Notice.Name,
			"address":                failure.Notice.Address,
			"withReview":             failure.Notice.WithReview,
			"message":                failure.Message,
		},
		"error":       failure.Error,
		"attempts":    failure.Attempts,
		"status":      "pending",
		"createdAt":   now,
		"lastTriedAt": now,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return translate(err, "")
}
