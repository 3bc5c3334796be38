// internal/handlers/tenant_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go_saas_provisioner/internal/handlers"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTenantHandler_GetMe(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(svc *mocks.TenantInfoService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:       "正常系: トークンに紐づくテナント情報を返す",
			authHeader: "Bearer valid-access-token",
			setupMock: func(svc *mocks.TenantInfoService) {
				svc.On("GetTenantInfo", mock.Anything, "valid-access-token").
					Return(&model.TenantInfoResponse{
						TenantID:    "tenant-123",
						CompanyName: "Acme Inc.",
						Status:      model.StatusActive,
						Plan:        "standard",
						InstanceURL: "https://acme.example.com",
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: Authorizationヘッダーなし",
			authHeader:     "",
			setupMock:      func(svc *mocks.TenantInfoService) {},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: Bearer形式ではない",
			authHeader:     "Basic dXNlcjpwYXNz",
			setupMock:      func(svc *mocks.TenantInfoService) {},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:       "異常系: トークンが無効",
			authHeader: "Bearer expired-token",
			setupMock: func(svc *mocks.TenantInfoService) {
				svc.On("GetTenantInfo", mock.Anything, "expired-token").
					Return(nil, model.NewAppError("INVALID_TOKEN", "アクセストークンが無効です。", "", model.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "INVALID_TOKEN",
		},
		{
			name:       "異常系: テナントレコードなしは404",
			authHeader: "Bearer orphan-token",
			setupMock: func(svc *mocks.TenantInfoService) {
				svc.On("GetTenantInfo", mock.Anything, "orphan-token").
					Return(nil, model.ErrTenantNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewTenantInfoService(t)
			tt.setupMock(svc)

			handler := handlers.NewTenantHandler(svc)
			router := chi.NewRouter()
			router.Get("/api/v1/tenants/me", handler.GetMe)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var errResp model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error.Code)
			}
			if tt.expectedStatus == http.StatusOK {
				var info model.TenantInfoResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
				assert.Equal(t, "tenant-123", info.TenantID)
				assert.Equal(t, model.StatusActive, info.Status)
			}
		})
	}
}
