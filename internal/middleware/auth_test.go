// internal/middleware/auth_test.go
package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

const testSecret = "test-secret-key"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = testSecret

	tests := []struct {
		name           string
		authHeader     func(t *testing.T) string
		expectedStatus int
		wantCallerID   string
	}{
		{
			name: "正常系: 有効なトークンで呼び出し元IDがセットされる",
			authHeader: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.MapClaims{
					"sub": "provision-workflow",
					"exp": time.Now().Add(time.Hour).Unix(),
				}, testSecret)
			},
			expectedStatus: http.StatusOK,
			wantCallerID:   "provision-workflow",
		},
		{
			name:           "異常系: ヘッダーなし",
			authHeader:     func(t *testing.T) string { return "" },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: Bearer形式ではない",
			authHeader:     func(t *testing.T) string { return "Token abc" },
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "異常系: 署名キーが異なる",
			authHeader: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.MapClaims{"sub": "x"}, "wrong-secret")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "異常系: 有効期限切れ",
			authHeader: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.MapClaims{
					"sub": "provision-workflow",
					"exp": time.Now().Add(-time.Hour).Unix(),
				}, testSecret)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "異常系: subクレームなし",
			authHeader: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.MapClaims{
					"exp": time.Now().Add(time.Hour).Unix(),
				}, testSecret)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCallerID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCallerID, _ = GetCallerIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/provision", nil)
			if header := tt.authHeader(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			JWTAuthMiddleware(cfg)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantCallerID != "" {
				assert.Equal(t, tt.wantCallerID, gotCallerID)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "正常系: Bearerトークン", header: "Bearer abc123", wantToken: "abc123"},
		{name: "正常系: 小文字のbearerも許容", header: "bearer abc123", wantToken: "abc123"},
		{name: "異常系: ヘッダーなし", header: "", wantErr: true},
		{name: "異常系: スキームのみ", header: "Bearer", wantErr: true},
		{name: "異常系: Basic認証", header: "Basic dXNlcg==", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := BearerToken(req)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrForbidden)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}
