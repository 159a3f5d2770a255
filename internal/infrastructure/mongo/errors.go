package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// translate は Mongo ドライバのエラーをアプリケーションのエラー型へ変換する。
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NewNotFoundError(notFound)
	case mongo.IsDuplicateKeyError(err):
		return apperrors.NewConflictError("document already exists")
	default:
		return apperrors.NewStoreError("data store request failed", err)
	}
}
