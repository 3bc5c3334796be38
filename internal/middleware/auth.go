package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェアです。
// プロビジョニングAPIは上位のステートマシンからのみ呼ばれる内部APIのため、
// 共有シークレット (HS256) で署名されたトークンを要求します。
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			tokenString, err := BearerToken(r)
			if err != nil {
				logger.Warn("JWT auth failed: missing or malformed Authorization header")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrForbidden))
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				// 署名アルゴリズムが期待通り(HS256)かチェック
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrForbidden))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Warn("JWT auth failed: unknown claims type")
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrForbidden))
				return
			}
			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn("JWT auth failed: subject (sub) claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンに呼び出し元情報が含まれていません。", "", model.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), model.CallerIDKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken は Authorization ヘッダーから Bearer トークンを取り出します。
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", model.ErrForbidden
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", model.ErrForbidden
	}
	return headerParts[1], nil
}

// GetCallerIDFromContext は認証ミドルウェアがセットした呼び出し元IDを取得します。
func GetCallerIDFromContext(ctx context.Context) (string, error) {
	value, ok := ctx.Value(model.CallerIDKey).(string)
	if !ok {
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "コンテキストから呼び出し元情報を取得できませんでした。", "", model.ErrInternalServer)
	}
	return value, nil
}
