package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const pendingNotFound = "pending establishment not found"

// PendingRepository は審査待ち施設コレクションの Mongo 実装。
type PendingRepository struct {
	collection *mongo.Collection
}

// NewPendingRepository は MongoDB コレクションを束縛した PendingRepository を生成する。
func NewPendingRepository(db *mongo.Database, collection string) *PendingRepository {
	return &PendingRepository{collection: db.Collection(collection)}
}

// Create は投稿を挿入し、採番した ID を書き戻す。
func (r *PendingRepository) Create(ctx context.Context, pending *admindomain.PendingEstablishment) error {
	doc, err := toPendingDocument(pending)
	if err != nil {
		return apperrors.NewValidationError("invalid id")
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err, pendingNotFound)
	}
	pending.ID = doc.ID.Hex()
	return nil
}

func (r *PendingRepository) FindByID(ctx context.Context, id string) (*admindomain.PendingEstablishment, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.NewNotFoundError(pendingNotFound)
	}
	var doc PendingEstablishmentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translate(err, pendingNotFound)
	}
	pending := mapPending(doc)
	return &pending, nil
}

// FindByIDs は $in で複数件をまとめて取得する。存在しない ID は単に結果に含まれない。
func (r *PendingRepository) FindByIDs(ctx context.Context, ids []string) ([]admindomain.PendingEstablishment, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []admindomain.PendingEstablishment{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

// ListOldest は古い順に最大 limit 件を返す。
func (r *PendingRepository) ListOldest(ctx context.Context, limit int) ([]admindomain.PendingEstablishment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// Delete は条件付き削除。DeletedCount が 0 なら他のセッションが先に処理したとみなし NotFound を返す。
func (r *PendingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperrors.NewNotFoundError(pendingNotFound)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return translate(err, pendingNotFound)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(pendingNotFound)
	}
	return nil
}

func (r *PendingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]admindomain.PendingEstablishment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "")
	}
	defer cursor.Close(ctx)

	pending := make([]admindomain.PendingEstablishment, 0)
	for cursor.Next(ctx) {
		var doc PendingEstablishmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, translate(err, "")
		}
		pending = append(pending, mapPending(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err, "")
	}
	return pending, nil
}
