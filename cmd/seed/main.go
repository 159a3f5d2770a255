package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	mongodoc "github.com/sngm3741/reststop-ratings/api/internal/infrastructure/mongo"
	"github.com/sngm3741/reststop-ratings/api/internal/infrastructure/observability"
	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

type seedOptions struct {
	envName            string
	establishmentCount int
	reviewCount        int
	pendingCount       int
	dropCollections    bool
	randomSeed         int64
}

type collections struct {
	establishments string
	pending        string
	reviews        string
}

type seedRepositories struct {
	establishments *mongodoc.EstablishmentRepository
	pending        *mongodoc.PendingRepository
	reviews        *mongodoc.ReviewRepository
}

var (
	namePrefixes = []string{"Posto", "Parada", "Restaurante", "Borracharia", "Ponto de Apoio"}
	nameSuffixes = []string{"Estrela", "Caminhoneiro", "Serra Azul", "Boa Viagem", "Trevo", "Km 42", "Santa Rita"}
	highways     = []string{"BR-101", "BR-116", "BR-040", "BR-381", "SP-330"}
	comments     = []string{
		"Banheiro limpo e atendimento rápido.",
		"Fila grande no horário de almoço.",
		"Estacionamento amplo, água disponível.",
		"Sem tomada para carregar o celular.",
		"",
	}
)

func main() {
	opts := parseFlags()
	logger := observability.InitLogger("reststop-seed", "development")

	if err := loadEnvFiles(filepath.Clean(filepath.Join("..", "env")), opts.envName); err != nil {
		logger.Warn().Err(err).Msg("環境変数ファイルを読み込めませんでした。既存の環境変数を使用します")
	}

	cfg := collections{
		establishments: envOrDefault("ESTABLISHMENT_COLLECTION", "establishments"),
		pending:        envOrDefault("PENDING_COLLECTION", "pending_establishments"),
		reviews:        envOrDefault("REVIEW_COLLECTION", "reviews"),
	}
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "reststop")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("MongoDB 接続に失敗しました")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)
	if opts.dropCollections {
		for _, name := range []string{cfg.establishments, cfg.pending, cfg.reviews} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				logger.Fatal().Err(err).Str("collection", name).Msg("コレクション削除に失敗しました")
			}
		}
		logger.Info().Msg("既存コレクションを削除しました")
	}
	if err := mongodoc.EnsureIndexes(ctx, db, cfg.establishments, cfg.pending, cfg.reviews); err != nil {
		logger.Fatal().Err(err).Msg("インデックス作成に失敗しました")
	}

	repos := seedRepositories{
		establishments: mongodoc.NewEstablishmentRepository(db, cfg.establishments),
		pending:        mongodoc.NewPendingRepository(db, cfg.pending),
		reviews:        mongodoc.NewReviewRepository(db, cfg.reviews),
	}
	rng := rand.New(rand.NewSource(opts.randomSeed))

	establishments, err := seedEstablishments(ctx, repos, rng, opts.establishmentCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("施設データの挿入に失敗しました")
	}
	reviews, err := seedReviews(ctx, repos, rng, establishments, opts.reviewCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("レビューデータの挿入に失敗しました")
	}
	pending, orphans, err := seedPending(ctx, repos, rng, opts.pendingCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("承認待ちデータの挿入に失敗しました")
	}

	logger.Info().
		Int("establishments", len(establishments)).
		Int("reviews", reviews).
		Int("pending", pending).
		Int("orphanReviews", orphans).
		Str("mongo", mongoURI).
		Str("db", dbName).
		Str("env", opts.envName).
		Msg("Seed 完了")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.establishmentCount, "establishments", 20, "生成する施設数")
	flag.IntVar(&opts.reviewCount, "reviews", 80, "生成するレビュー総数")
	flag.IntVar(&opts.pendingCount, "pending", 5, "生成する承認待ち施設数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード（再現用）")
	flag.Parse()

	if opts.establishmentCount <= 0 {
		fmt.Fprintln(os.Stderr, "establishments は 1 以上を指定してください")
		os.Exit(2)
	}
	if opts.reviewCount < 0 {
		opts.reviewCount = 0
	}
	if opts.pendingCount < 0 {
		opts.pendingCount = 0
	}
	return opts
}

func randomName(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s", namePrefixes[rng.Intn(len(namePrefixes))], nameSuffixes[rng.Intn(len(nameSuffixes))])
}

func randomAddress(rng *rand.Rand) string {
	return fmt.Sprintf("%s, km %d", highways[rng.Intn(len(highways))], 1+rng.Intn(900))
}

func randomPosition(rng *rand.Rand) domain.Position {
	return domain.Position{
		Lat: -33 + rng.Float64()*28,
		Lng: -73 + rng.Float64()*38,
	}
}

func randomAmenities(rng *rand.Rand) domain.Amenities {
	return domain.Amenities{
		HasWater:    rng.Intn(3) > 0,
		HasBathroom: rng.Intn(2) == 0,
		HasPower:    rng.Intn(3) == 0,
	}
}

func randomReview(rng *rand.Rand, createdAt time.Time) domain.Review {
	rating := float64(1 + rng.Intn(5))
	wait := rng.Intn(30)
	return domain.Review{
		ServiceRating:   &rating,
		Comment:         admindomain.NewComment(comments[rng.Intn(len(comments))]),
		Amenities:       randomAmenities(rng),
		StaffCount:      admindomain.ClampStaffCount(rng.Intn(8)),
		WaitTimeMinutes: &wait,
		CreatedAt:       createdAt,
	}
}

func seedEstablishments(ctx context.Context, repos seedRepositories, rng *rand.Rand, count int) ([]domain.Establishment, error) {
	now := time.Now().UTC()
	out := make([]domain.Establishment, 0, count)
	for i := 0; i < count; i++ {
		createdAt := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		establishment := domain.Establishment{
			Name:      randomName(rng),
			Address:   randomAddress(rng),
			Position:  randomPosition(rng),
			Amenities: randomAmenities(rng),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		if err := repos.establishments.Create(ctx, &establishment); err != nil {
			return nil, err
		}
		out = append(out, establishment)
	}
	return out, nil
}

// seedReviews は約 8 割を承認済み、残りを未承認として投入する。
func seedReviews(ctx context.Context, repos seedRepositories, rng *rand.Rand, establishments []domain.Establishment, count int) (int, error) {
	now := time.Now().UTC()
	inserted := 0
	for i := 0; i < count; i++ {
		target := establishments[rng.Intn(len(establishments))]
		createdAt := target.CreatedAt.Add(time.Duration(rng.Int63n(int64(now.Sub(target.CreatedAt)) + 1)))
		review := randomReview(rng, createdAt)
		review.EstablishmentID = target.ID
		if rng.Intn(5) > 0 {
			moderatedAt := createdAt.Add(time.Hour)
			review.Approved = true
			review.ModeratedBy = "seed@reststop.local"
			review.ModeratedAt = &moderatedAt
		}
		if err := repos.reviews.Create(ctx, &review); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// seedPending は承認待ち施設と、その半数に紐づく未承認レビューを投入する。
func seedPending(ctx context.Context, repos seedRepositories, rng *rand.Rand, count int) (int, int, error) {
	now := time.Now().UTC()
	orphans := 0
	for i := 0; i < count; i++ {
		createdAt := now.Add(-time.Duration(count-i) * time.Hour)
		pending := admindomain.PendingEstablishment{
			Name:        randomName(rng),
			Address:     randomAddress(rng),
			Position:    randomPosition(rng),
			Amenities:   randomAmenities(rng),
			SubmittedBy: admindomain.SubmittedByPublic,
			CreatedAt:   createdAt,
		}
		if err := repos.pending.Create(ctx, &pending); err != nil {
			return i, orphans, err
		}
		if i%2 != 0 {
			continue
		}
		review := randomReview(rng, createdAt)
		review.PendingEstablishmentID = pending.ID
		review.ModeratorNote = admindomain.LinkageToken(pending.ID)
		if err := repos.reviews.Create(ctx, &review); err != nil {
			return i + 1, orphans, err
		}
		orphans++
	}
	return count, orphans, nil
}

// loadEnvFiles は shared.env と <env>.env を順に読み込み、既存の環境変数を上書きする。
func loadEnvFiles(base, envName string) error {
	return godotenv.Overload(
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	)
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
