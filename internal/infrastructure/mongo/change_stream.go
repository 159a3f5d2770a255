package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/reststop-ratings/api/internal/public/application"
)

const changeStreamMaxAwait = 5 * time.Second

// watchedOperations は再集計のきっかけとなる変更種別。
var watchedOperations = bson.A{"insert", "update", "replace", "delete"}

// ChangeStream はデータベース単位の Change Stream を購読し、対象コレクションの変更を通知する。
// レプリカセット以外の MongoDB では Subscribe がエラーを返す。
type ChangeStream struct {
	db          *mongo.Database
	collections []string
	logger      zerolog.Logger
}

func NewChangeStream(db *mongo.Database, collections []string, logger zerolog.Logger) *ChangeStream {
	return &ChangeStream{db: db, collections: collections, logger: logger}
}

type changeEventDocument struct {
	OperationType string `bson:"operationType"`
	Namespace     struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
}

func (s *ChangeStream) pipeline() mongo.Pipeline {
	collections := make(bson.A, 0, len(s.collections))
	for _, c := range s.collections {
		collections = append(collections, c)
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": watchedOperations},
			"ns.coll":       bson.M{"$in": collections},
		}}},
		{{Key: "$project", Value: bson.M{
			"operationType": 1,
			"ns":            1,
			"documentKey":   1,
		}}},
	}
}

// Subscribe は Change Stream を開き、ctx が終わるかストリームが切れるまでイベントを流す。
// ストリーム終了時にチャネルは close される。
func (s *ChangeStream) Subscribe(ctx context.Context) (<-chan application.ChangeEvent, error) {
	stream, err := s.db.Watch(ctx, s.pipeline(), options.ChangeStream().SetMaxAwaitTime(changeStreamMaxAwait))
	if err != nil {
		return nil, translate(err, "")
	}

	events := make(chan application.ChangeEvent)
	go func() {
		defer close(events)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var doc changeEventDocument
			if err := stream.Decode(&doc); err != nil {
				s.logger.Warn().Err(err).Msg("failed to decode change event")
				continue
			}
			event := application.ChangeEvent{
				Collection: doc.Namespace.Coll,
				Operation:  doc.OperationType,
				DocumentID: doc.DocumentKey.ID.Hex(),
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("change stream terminated")
		}
	}()
	return events, nil
}
