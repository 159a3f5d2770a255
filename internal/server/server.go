package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	"github.com/sngm3741/reststop-ratings/api/internal/config"
	"github.com/sngm3741/reststop-ratings/api/internal/infrastructure/messenger"
	mongodoc "github.com/sngm3741/reststop-ratings/api/internal/infrastructure/mongo"
	"github.com/sngm3741/reststop-ratings/api/internal/infrastructure/observability"
	redisinfra "github.com/sngm3741/reststop-ratings/api/internal/infrastructure/redis"
	adminhttp "github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/reststop-ratings/api/internal/public/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         zerolog.Logger
	client         *mongo.Client
	redis          *redisinfra.Client
	database       *mongo.Database
	collections    []string
	queries        publicapp.EstablishmentQueryService
	moderation     adminapp.ModerationService
	bulk           adminapp.BulkService
	reconciler     *publicapp.Reconciler
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
	env            string
	indexTimeout   time.Duration
}

// New は Config と接続済みクライアントからアプリケーションサービスとハンドラを組み立てる。
// redisClient が nil の場合、多重実行ガードはプロセス内のものを使う。
func New(cfg config.Config, logger zerolog.Logger, client *mongo.Client, redisClient *redisinfra.Client) *Server {
	database := client.Database(cfg.MongoDatabase)

	srv := &Server{
		logger:         logger,
		client:         client,
		redis:          redisClient,
		database:       database,
		collections:    []string{cfg.EstablishmentCollection, cfg.PendingCollection, cfg.ReviewCollection},
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		env:            cfg.Env,
		indexTimeout:   cfg.Timeout,
	}

	establishments := mongodoc.NewEstablishmentRepository(database, cfg.EstablishmentCollection)
	pending := mongodoc.NewPendingRepository(database, cfg.PendingCollection)
	reviews := mongodoc.NewReviewRepository(database, cfg.ReviewCollection)

	var guard adminapp.ActionGuard = adminapp.NewLocalActionGuard()
	if redisClient != nil {
		guard = redisinfra.NewActionGuard(redisClient, cfg.ActionGuardTTL, observability.Component(logger, "action_guard"))
	}

	notifier := messenger.NewNotifier(messenger.Config{
		Endpoint:           normaliseBaseURL(cfg.MessengerEndpoint),
		DiscordDestination: cfg.DiscordDestination,
		AdminReviewBaseURL: normaliseBaseURL(cfg.AdminReviewBaseURL),
		Timeout:            cfg.MessengerTimeout,
		RetryDelay:         200 * time.Millisecond,
	}, mongodoc.NewNotificationFailureRepository(database, cfg.FailedNotificationCollection), observability.Component(logger, "messenger"))
	if err := notifier.Check(); err != nil {
		logger.Warn().Err(err).Msg("moderator notifications disabled")
	}

	srv.queries = publicapp.NewEstablishmentQueryService(establishments, reviews, observability.Component(logger, "query"))
	changes := mongodoc.NewChangeStream(database, srv.collections, observability.Component(logger, "change_stream"))
	srv.reconciler = publicapp.NewReconciler(changes, srv.queries, cfg.ReconcilePollInterval, observability.Component(logger, "reconciler"))

	deps := adminapp.Deps{
		Pending:        pending,
		Establishments: establishments,
		Reviews:        reviews,
		Authorizer:     adminapp.NewAllowListAuthorizer(cfg.AdminEmails),
		Guard:          guard,
		Notifier:       notifier,
		Refresher:      srv.reconciler,
		Logger:         observability.Component(logger, "moderation"),
	}
	srv.moderation = adminapp.NewModerationService(deps)
	srv.bulk = adminapp.NewBulkService(deps)

	return srv
}

// Router はミドルウェアと Public/Admin のルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:    observability.Component(s.logger, "public_http"),
		Queries:   s.queries,
		Submitter: s.moderation,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:     observability.Component(s.logger, "admin_http"),
		Moderation: s.moderation,
		Bulk:       s.bulk,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})
	return router
}

// Run はインデックスを用意し、再集計ループと HTTP サーバーを起動してシグナルを待つ。
func (s *Server) Run() error {
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), s.indexTimeout)
	if err := mongodoc.EnsureIndexes(indexCtx, s.database, s.collections[0], s.collections[1], s.collections[2]); err != nil {
		s.logger.Warn().Err(err).Msg("インデックスの作成に失敗しました")
	}
	cancelIndex()

	reconcileCtx, stopReconciler := context.WithCancel(context.Background())
	reconcileDone := make(chan struct{})
	go func() {
		defer close(reconcileDone)
		if err := s.queries.Reload(reconcileCtx); err != nil {
			s.logger.Warn().Err(err).Msg("initial snapshot load failed")
		}
		if err := s.reconciler.Run(reconcileCtx); err != nil {
			s.logger.Error().Err(err).Msg("reconciler stopped")
		}
	}()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Str("env", s.env).Msg("HTTP サーバー起動")
		errChan <- httpServer.ListenAndServe()
	}()

	err := waitForShutdown(httpServer, errChan, s.logger)
	stopReconciler()
	<-reconcileDone
	s.shutdown(context.Background())
	return err
}

// normaliseBaseURL は入力文字列をトリムして末尾スラッシュを削除したURLを返す。
func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// shutdown は MongoDB と Redis の接続をタイムアウト付きで閉じる。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("MongoDB 切断時にエラー")
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Redis 切断時にエラー")
		}
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, logger zerolog.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("サーバーが異常終了")
			return err
		}
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("シグナルを受信。サーバー停止処理を開始します。")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("サーバー停止時にエラー")
		}
	}
	return nil
}
