// internal/service/registration_service_test.go
package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/model"

	awsmocks "go_saas_provisioner/internal/awsclient/mocks"
	repomocks "go_saas_provisioner/internal/repository/mocks"
	svcmocks "go_saas_provisioner/internal/service/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegistrationConfig(ldapEnabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.Cognito.UserPoolID = "ap-northeast-1_TESTPOOL"
	cfg.Registration.TrialDays = 30
	cfg.Registration.InstanceURL = "https://app.example.com"
	cfg.LDAP.Enabled = ldapEnabled
	return cfg
}

func validRegisterRequest() model.RegisterRequest {
	return model.RegisterRequest{
		CompanyName: "Acme Inc.",
		AdminEmail:  "admin@acme.example",
		AdminName:   "山田太郎",
		Plan:        "free-trial",
	}
}

func Test_registrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: ユーザー作成・レコード登録・ディレクトリ連携・メール送信", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(true))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.MatchedBy(func(input *cognitoidentityprovider.AdminCreateUserInput) bool {
			if aws.ToString(input.Username) != req.AdminEmail {
				return false
			}
			if input.MessageAction != cognitotypes.MessageActionTypeSuppress {
				return false
			}
			attrs := map[string]string{}
			for _, a := range input.UserAttributes {
				attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
			}
			return attrs["email"] == req.AdminEmail &&
				attrs["email_verified"] == "true" &&
				attrs["custom:tenant_id"] != "" &&
				attrs["custom:company_name"] == req.CompanyName
		})).Return(&cognitoidentityprovider.AdminCreateUserOutput{}, nil).Once()

		cognito.On("AdminSetUserPassword", ctx, mock.MatchedBy(func(input *cognitoidentityprovider.AdminSetUserPasswordInput) bool {
			return aws.ToString(input.Username) == req.AdminEmail &&
				input.Permanent &&
				len(aws.ToString(input.Password)) == 16
		})).Return(&cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil).Once()

		registry.On("UpdateStatus", ctx, mock.AnythingOfType("string"), model.StatusActive,
			mock.MatchedBy(func(extra map[string]string) bool {
				return extra["company_name"] == req.CompanyName &&
					extra["admin_email"] == req.AdminEmail &&
					extra["plan"] == req.Plan &&
					extra["url"] == "https://app.example.com" &&
					extra["created_at"] != "" &&
					extra["trial_expires_at"] != ""
			})).Return(nil).Once()

		directory.On("RegisterAdminUser", ctx, mock.AnythingOfType("string"), req.AdminEmail, req.AdminName, mock.AnythingOfType("string")).
			Return(nil).Once()

		mailer.On("Send", ctx, req.AdminEmail, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(nil).Once()

		resp, err := svc.Register(ctx, req)

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.TenantID)
		assert.Equal(t, "https://app.example.com", resp.InstanceURL)
		assert.Equal(t, req.AdminEmail, resp.AdminUsername)
		assert.True(t, resp.DirectorySynced)
		cognito.AssertExpectations(t)
		registry.AssertExpectations(t)
		directory.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("正常系: ディレクトリ連携失敗でも登録は成立する", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(true))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminCreateUserInput")).
			Return(&cognitoidentityprovider.AdminCreateUserOutput{}, nil).Once()
		cognito.On("AdminSetUserPassword", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminSetUserPasswordInput")).
			Return(&cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil).Once()
		registry.On("UpdateStatus", ctx, mock.AnythingOfType("string"), model.StatusActive, mock.Anything).
			Return(nil).Once()
		directory.On("RegisterAdminUser", ctx, mock.AnythingOfType("string"), req.AdminEmail, req.AdminName, mock.AnythingOfType("string")).
			Return(errors.New("ldap unreachable")).Once()
		mailer.On("Send", ctx, req.AdminEmail, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(nil).Once()

		resp, err := svc.Register(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.False(t, resp.DirectorySynced)
		directory.AssertExpectations(t)
	})

	t.Run("正常系: 連携無効時はディレクトリに触れない", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(false))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminCreateUserInput")).
			Return(&cognitoidentityprovider.AdminCreateUserOutput{}, nil).Once()
		cognito.On("AdminSetUserPassword", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminSetUserPasswordInput")).
			Return(&cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil).Once()
		registry.On("UpdateStatus", ctx, mock.AnythingOfType("string"), model.StatusActive, mock.Anything).
			Return(nil).Once()
		mailer.On("Send", ctx, req.AdminEmail, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(nil).Once()

		resp, err := svc.Register(ctx, req)

		require.NoError(t, err)
		assert.False(t, resp.DirectorySynced)
		directory.AssertNotCalled(t, "RegisterAdminUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: メール送信失敗でも登録は成立する", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(false))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminCreateUserInput")).
			Return(&cognitoidentityprovider.AdminCreateUserOutput{}, nil).Once()
		cognito.On("AdminSetUserPassword", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminSetUserPasswordInput")).
			Return(&cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil).Once()
		registry.On("UpdateStatus", ctx, mock.AnythingOfType("string"), model.StatusActive, mock.Anything).
			Return(nil).Once()
		mailer.On("Send", ctx, req.AdminEmail, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(errors.New("ses quota exceeded")).Once()

		resp, err := svc.Register(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("異常系: メールアドレスが登録済み", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(false))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminCreateUserInput")).
			Return(nil, &cognitotypes.UsernameExistsException{}).Once()

		resp, err := svc.Register(ctx, req)

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, model.ErrConflict)
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "EMAIL_TAKEN", appErr.Detail.Code)
		registry.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: パスワード設定失敗", func(t *testing.T) {
		cognito := new(awsmocks.CognitoAPI)
		registry := new(repomocks.TenantRegistry)
		directory := new(repomocks.DirectoryRepository)
		mailer := new(svcmocks.Mailer)
		svc := NewRegistrationService(cognito, registry, directory, mailer, newTestRegistrationConfig(false))
		req := validRegisterRequest()

		cognito.On("AdminCreateUser", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminCreateUserInput")).
			Return(&cognitoidentityprovider.AdminCreateUserOutput{}, nil).Once()
		cognito.On("AdminSetUserPassword", ctx, mock.AnythingOfType("*cognitoidentityprovider.AdminSetUserPasswordInput")).
			Return(nil, errors.New("invalid password policy")).Once()

		resp, err := svc.Register(ctx, req)

		require.Error(t, err)
		assert.Nil(t, resp)
		registry.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_generateTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		password, err := generateTempPassword()
		require.NoError(t, err)
		assert.Len(t, password, passwordLength)
		// 各文字種が必ず含まれること
		assert.True(t, strings.ContainsAny(password, lowerChars), "lower: %s", password)
		assert.True(t, strings.ContainsAny(password, upperChars), "upper: %s", password)
		assert.True(t, strings.ContainsAny(password, digitChars), "digit: %s", password)
		assert.True(t, strings.ContainsAny(password, symbolChars), "symbol: %s", password)
		assert.False(t, seen[password], "duplicate password generated")
		seen[password] = true
	}
}
