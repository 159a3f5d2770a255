package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
)

// 失敗理由はログにのみ残し、レスポンスは常に同じ文言にする。
const unauthorizedMessage = "not authorized"

type authClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
// モデレーター権限の判定はサービス側の許可リストで行う。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeUnauthorized(w, "missing authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeUnauthorized(w, "not a bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeUnauthorized(w, "empty bearer token")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeUnauthorized(w, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:    claims.Subject,
			Email: strings.ToLower(strings.TrimSpace(claims.Email)),
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) writeUnauthorized(w http.ResponseWriter, reason string) {
	s.logger.Debug().Str("reason", reason).Msg("admin request rejected")
	commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, commonhttp.ErrorResponse{Success: false, Error: unauthorizedMessage})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !slices.Contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}
