package mongo

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const establishmentNotFound = "establishment not found"

// EstablishmentRepository は公開済み施設コレクションの Mongo 実装。
// 管理側の EstablishmentRepository と公開側の EstablishmentReader の両方を満たす。
type EstablishmentRepository struct {
	collection *mongo.Collection
}

// NewEstablishmentRepository は MongoDB コレクションを束縛した EstablishmentRepository を生成する。
func NewEstablishmentRepository(db *mongo.Database, collection string) *EstablishmentRepository {
	return &EstablishmentRepository{collection: db.Collection(collection)}
}

// ListAll は 1000 件単位のページングで全施設を読み込む。
func (r *EstablishmentRepository) ListAll(ctx context.Context) ([]domain.Establishment, error) {
	return scanAll(ctx, r.collection, bson.M{},
		func(d EstablishmentDocument) primitive.ObjectID { return d.ID },
		mapEstablishment,
	)
}

// FindByID は 16 進 ObjectID を受け取り単一施設を返す。
func (r *EstablishmentRepository) FindByID(ctx context.Context, id string) (*domain.Establishment, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.NewNotFoundError(establishmentNotFound)
	}
	var doc EstablishmentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translate(err, establishmentNotFound)
	}
	establishment := mapEstablishment(doc)
	return &establishment, nil
}

// Create は指定 ID で施設を挿入する。ID が既に使われていれば Conflict を返す。
func (r *EstablishmentRepository) Create(ctx context.Context, establishment *domain.Establishment) error {
	doc, err := toEstablishmentDocument(establishment)
	if err != nil {
		return apperrors.NewValidationError("invalid establishment id")
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err, establishmentNotFound)
	}
	establishment.ID = doc.ID.Hex()
	return nil
}

// Update は名称・住所・座標・設備フラグを上書きする。
func (r *EstablishmentRepository) Update(ctx context.Context, establishment *domain.Establishment) error {
	doc, err := toEstablishmentDocument(establishment)
	if err != nil {
		return apperrors.NewNotFoundError(establishmentNotFound)
	}
	update := bson.M{"$set": bson.M{
		"name":      doc.Name,
		"address":   doc.Address,
		"position":  doc.Position,
		"amenities": doc.Amenities,
		"updatedAt": doc.UpdatedAt,
	}}
	result, err := r.collection.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		return translate(err, establishmentNotFound)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(establishmentNotFound)
	}
	return nil
}

// Delete は施設を 1 件削除する。該当がなければ NotFound を返す。
func (r *EstablishmentRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperrors.NewNotFoundError(establishmentNotFound)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return translate(err, establishmentNotFound)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(establishmentNotFound)
	}
	return nil
}

// Search は名称または住所の部分一致 (大文字小文字を区別しない) で施設を検索する。
func (r *EstablishmentRepository) Search(ctx context.Context, query string, limit int) ([]domain.Establishment, error) {
	cursor, err := r.collection.Find(ctx, searchFilter(query),
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, translate(err, "")
	}
	defer cursor.Close(ctx)

	establishments := make([]domain.Establishment, 0)
	for cursor.Next(ctx) {
		var doc EstablishmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, translate(err, "")
		}
		establishments = append(establishments, mapEstablishment(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err, "")
	}
	return establishments, nil
}

func searchFilter(query string) bson.M {
	regex := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": regex},
		bson.M{"address": regex},
	}}
}
