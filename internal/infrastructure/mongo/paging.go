package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize は全件走査時に 1 回で読み込む件数。
const PageSize = 1000

// scanAll は _id 昇順のキーセットページングで filter に一致する全件を読み込む。
// PageSize 未満のページが返った時点で走査を終える。
func scanAll[D any, T any](ctx context.Context, coll *mongo.Collection, filter bson.M, idOf func(D) primitive.ObjectID, mapFn func(D) T) ([]T, error) {
	out := make([]T, 0)
	var last *primitive.ObjectID
	for {
		pageFilter := bson.M{}
		for k, v := range filter {
			pageFilter[k] = v
		}
		if last != nil {
			pageFilter["_id"] = bson.M{"$gt": *last}
		}

		opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(PageSize)
		cursor, err := coll.Find(ctx, pageFilter, opts)
		if err != nil {
			return nil, translate(err, "")
		}
		var docs []D
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, translate(err, "")
		}
		for _, doc := range docs {
			out = append(out, mapFn(doc))
		}
		if len(docs) < PageSize {
			return out, nil
		}
		id := idOf(docs[len(docs)-1])
		last = &id
	}
}
