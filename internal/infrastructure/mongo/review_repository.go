package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const reviewNotFound = "review not found"

// ReviewRepository はレビューコレクションの Mongo 実装。
// 管理側の ReviewRepository と公開側の ReviewReader の両方を満たす。
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository は MongoDB コレクションを束縛した ReviewRepository を生成する。
func NewReviewRepository(db *mongo.Database, collection string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collection)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	doc, err := toReviewDocument(review)
	if err != nil {
		return apperrors.NewValidationError("invalid id")
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err, reviewNotFound)
	}
	review.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.NewNotFoundError(reviewNotFound)
	}
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translate(err, reviewNotFound)
	}
	review := mapReview(doc)
	return &review, nil
}

// ListApproved は承認済みかつ施設に紐づいたレビューを全件返す。
func (r *ReviewRepository) ListApproved(ctx context.Context) ([]domain.Review, error) {
	return scanAll(ctx, r.collection, approvedFilter(),
		func(d ReviewDocument) primitive.ObjectID { return d.ID },
		mapReview,
	)
}

// ListApprovedByEstablishment は施設詳細向けに新しい順で承認済みレビューを返す。
func (r *ReviewRepository) ListApprovedByEstablishment(ctx context.Context, establishmentID string) ([]domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(establishmentID))
	if err != nil {
		return []domain.Review{}, nil
	}
	filter := bson.M{"approved": true, "establishmentId": objectID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, filter, opts)
}

// ListUnapproved は審査待ちレビューを古い順に最大 limit 件返す。
func (r *ReviewRepository) ListUnapproved(ctx context.Context, limit int) ([]domain.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"approved": false}, opts)
}

// SetModeration は承認状態とモデレーター情報を書き込む。
func (r *ReviewRepository) SetModeration(ctx context.Context, id string, moderation application.Moderation) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperrors.NewNotFoundError(reviewNotFound)
	}
	set := bson.M{
		"approved":    moderation.Approved,
		"moderatedBy": moderation.ModeratedBy,
		"moderatedAt": moderation.ModeratedAt.UTC(),
	}
	if moderation.Note != nil {
		set["moderatorNote"] = *moderation.Note
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return translate(err, reviewNotFound)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(reviewNotFound)
	}
	return nil
}

// ApproveMany は $in による 1 回の UpdateMany でまとめて承認する。孤立レビューは対象外。
func (r *ReviewRepository) ApproveMany(ctx context.Context, ids []string, moderatedBy string, at time.Time) (int, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"_id":             bson.M{"$in": oids},
		"establishmentId": bson.M{"$ne": nil},
	}
	update := bson.M{"$set": bson.M{
		"approved":    true,
		"moderatedBy": moderatedBy,
		"moderatedAt": at.UTC(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, translate(err, reviewNotFound)
	}
	return int(result.MatchedCount), nil
}

// RelinkOrphans は pendingID に紐づく孤立レビューの establishmentId を書き換える。
func (r *ReviewRepository) RelinkOrphans(ctx context.Context, pendingID, establishmentID string) (int, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(establishmentID))
	if err != nil {
		return 0, apperrors.NewNotFoundError(establishmentNotFound)
	}
	result, err := r.collection.UpdateMany(ctx, orphanFilter(pendingID), bson.M{"$set": bson.M{"establishmentId": objectID}})
	if err != nil {
		return 0, translate(err, reviewNotFound)
	}
	return int(result.ModifiedCount), nil
}

// DeleteOrphans は却下された審査待ち施設に紐づく孤立レビューを削除する。
func (r *ReviewRepository) DeleteOrphans(ctx context.Context, pendingID string) (int, error) {
	result, err := r.collection.DeleteMany(ctx, orphanFilter(pendingID))
	if err != nil {
		return 0, translate(err, reviewNotFound)
	}
	return int(result.DeletedCount), nil
}

// DeleteByEstablishment は施設削除時のカスケードとして紐づくレビューを全削除する。
func (r *ReviewRepository) DeleteByEstablishment(ctx context.Context, establishmentID string) (int, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(establishmentID))
	if err != nil {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"establishmentId": objectID})
	if err != nil {
		return 0, translate(err, reviewNotFound)
	}
	return int(result.DeletedCount), nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "")
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, translate(err, "")
		}
		reviews = append(reviews, mapReview(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err, "")
	}
	return reviews, nil
}

func approvedFilter() bson.M {
	return bson.M{"approved": true, "establishmentId": bson.M{"$ne": nil}}
}

// orphanFilter は構造化フィールド、またはメモ内の完全一致トークンで孤立レビューを特定する。
func orphanFilter(pendingID string) bson.M {
	pendingID = strings.TrimSpace(pendingID)
	return bson.M{
		"establishmentId": nil,
		"$or": bson.A{
			bson.M{"pendingEstablishmentId": pendingID},
			bson.M{"moderatorNote": primitive.Regex{Pattern: admindomain.LinkagePattern(pendingID)}},
		},
	}
}
