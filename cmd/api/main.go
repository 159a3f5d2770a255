package main

import (
	"context"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/reststop-ratings/api/internal/config"
	"github.com/sngm3741/reststop-ratings/api/internal/infrastructure/observability"
	redisinfra "github.com/sngm3741/reststop-ratings/api/internal/infrastructure/redis"
	"github.com/sngm3741/reststop-ratings/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := observability.InitLogger("reststop-api", os.Getenv("APP_ENV"))
		bootLogger.Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}
	logger := observability.InitLogger("reststop-api", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal().Err(err).Msg("MongoDB 接続に失敗しました")
	}

	var redisClient *redisinfra.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redisinfra.NewClient(ctx, redisinfra.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis に接続できません。プロセス内ガードを使用します")
			redisClient = nil
		}
	}

	app := server.New(cfg, logger, client, redisClient)
	if err := app.Run(); err != nil {
		logger.Fatal().Err(err).Msg("サーバー起動に失敗")
	}
}
