// internal/service/tenant_info_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"go_saas_provisioner/internal/model"

	awsmocks "go_saas_provisioner/internal/awsclient/mocks"
	repomocks "go_saas_provisioner/internal/repository/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_tenantInfoService_GetTenantInfo(t *testing.T) {
	ctx := context.Background()
	accessToken := "test-access-token"

	userWithTenant := &cognitoidentityprovider.GetUserOutput{
		UserAttributes: []cognitotypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String("admin@acme.example")},
			{Name: aws.String("custom:tenant_id"), Value: aws.String("tenant-123")},
		},
	}

	tests := []struct {
		name      string
		setupMock func(cognito *awsmocks.CognitoAPI, registry *repomocks.TenantRegistry)
		wantErr   error
		wantCode  string
	}{
		{
			name: "正常系: トークンからテナント情報を取得",
			setupMock: func(cognito *awsmocks.CognitoAPI, registry *repomocks.TenantRegistry) {
				cognito.On("GetUser", ctx, mock.MatchedBy(func(input *cognitoidentityprovider.GetUserInput) bool {
					return aws.ToString(input.AccessToken) == accessToken
				})).Return(userWithTenant, nil).Once()
				registry.On("Get", ctx, "tenant-123").Return(&model.Tenant{
					TenantID:    "tenant-123",
					CompanyName: "Acme Inc.",
					Status:      model.StatusActive,
					Plan:        "standard",
					CreatedAt:   "2026-08-01T00:00:00Z",
					URL:         "https://acme.example.com",
				}, nil).Once()
			},
		},
		{
			name: "異常系: トークンが無効",
			setupMock: func(cognito *awsmocks.CognitoAPI, registry *repomocks.TenantRegistry) {
				cognito.On("GetUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.GetUserInput")).
					Return(nil, errors.New("Access Token has expired")).Once()
			},
			wantErr:  model.ErrForbidden,
			wantCode: "INVALID_TOKEN",
		},
		{
			name: "異常系: テナントID属性が未設定",
			setupMock: func(cognito *awsmocks.CognitoAPI, registry *repomocks.TenantRegistry) {
				cognito.On("GetUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.GetUserInput")).
					Return(&cognitoidentityprovider.GetUserOutput{
						UserAttributes: []cognitotypes.AttributeType{
							{Name: aws.String("email"), Value: aws.String("admin@acme.example")},
						},
					}, nil).Once()
			},
			wantErr:  model.ErrInvalidInput,
			wantCode: "TENANT_ID_MISSING",
		},
		{
			name: "異常系: テナントレコードが存在しない",
			setupMock: func(cognito *awsmocks.CognitoAPI, registry *repomocks.TenantRegistry) {
				cognito.On("GetUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.GetUserInput")).
					Return(userWithTenant, nil).Once()
				registry.On("Get", ctx, "tenant-123").Return(nil, model.ErrTenantNotFound).Once()
			},
			wantErr: model.ErrTenantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cognito := new(awsmocks.CognitoAPI)
			registry := new(repomocks.TenantRegistry)
			svc := NewTenantInfoService(cognito, registry)
			tt.setupMock(cognito, registry)

			info, err := svc.GetTenantInfo(ctx, accessToken)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, info)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantCode != "" {
					var appErr *model.AppError
					require.ErrorAs(t, err, &appErr)
					assert.Equal(t, tt.wantCode, appErr.Detail.Code)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, info)
				assert.Equal(t, "tenant-123", info.TenantID)
				assert.Equal(t, "Acme Inc.", info.CompanyName)
				assert.Equal(t, model.StatusActive, info.Status)
				assert.Equal(t, "https://acme.example.com", info.InstanceURL)
			}
			cognito.AssertExpectations(t)
			registry.AssertExpectations(t)
		})
	}
}
