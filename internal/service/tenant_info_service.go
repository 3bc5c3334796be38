//go:generate mockery --name TenantInfoService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"

	"go_saas_provisioner/internal/awsclient"
	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// tenantIDAttribute はユーザープール側でテナントを紐付けるカスタム属性名です。
const tenantIDAttribute = "custom:tenant_id"

// TenantInfoService はアクセストークンからテナント情報を引きます。
type TenantInfoService interface {
	GetTenantInfo(ctx context.Context, accessToken string) (*model.TenantInfoResponse, error)
}

type tenantInfoService struct {
	cognito  awsclient.CognitoAPI
	registry repository.TenantRegistry
}

func NewTenantInfoService(cognito awsclient.CognitoAPI, registry repository.TenantRegistry) TenantInfoService {
	return &tenantInfoService{cognito: cognito, registry: registry}
}

// GetTenantInfo はトークンの所有者が属するテナントのレコードを返します。
// トークンが無効な場合は認可エラー、テナント属性が無い場合は入力エラーです。
func (s *tenantInfoService) GetTenantInfo(ctx context.Context, accessToken string) (*model.TenantInfoResponse, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.cognito.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		logger.Warn("Failed to resolve user from access token", "error", err)
		return nil, model.NewAppError("INVALID_TOKEN", "アクセストークンが無効です。", "", model.ErrForbidden)
	}

	var tenantID string
	for _, attr := range user.UserAttributes {
		if aws.ToString(attr.Name) == tenantIDAttribute {
			tenantID = aws.ToString(attr.Value)
			break
		}
	}
	if tenantID == "" {
		return nil, model.NewAppError("TENANT_ID_MISSING",
			"ユーザーにテナントIDが設定されていません。", "", model.ErrInvalidInput)
	}

	tenant, err := s.registry.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenantInfoService.GetTenantInfo: %w", err)
	}

	return &model.TenantInfoResponse{
		TenantID:    tenant.TenantID,
		CompanyName: tenant.CompanyName,
		Status:      tenant.Status,
		Plan:        tenant.Plan,
		CreatedAt:   tenant.CreatedAt,
		InstanceURL: tenant.URL,
	}, nil
}
