package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const keyPrefix = "reststop:action:"

// releaseScript は自分が取得したトークンの場合のみキーを削除する。
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ActionGuard は SET NX PX による排他トークンで、同じ操作の同時実行をセッション間で防ぐ。
// TTL はプロセスが解放前に落ちた場合の保険。
type ActionGuard struct {
	client *Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewActionGuard(client *Client, ttl time.Duration, logger zerolog.Logger) *ActionGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ActionGuard{client: client, ttl: ttl, logger: logger}
}

func (g *ActionGuard) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	ok, err := g.client.Client().SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, apperrors.NewStoreError("failed to acquire action guard", err)
	}
	if !ok {
		return nil, apperrors.NewConflictError("action already in progress")
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client.Client(), []string{redisKey}, token).Err(); err != nil {
			g.logger.Warn().Err(err).Str("key", redisKey).Msg("failed to release action guard")
		}
	}, nil
}
