//go:generate mockery --name RegistrationService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go_saas_provisioner/internal/awsclient"
	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/google/uuid"
)

// RegistrationService はサインアップを処理します。
// IDプロバイダのアカウント作成、レジストリ登録、ディレクトリ連携、
// ウェルカムメール送信までを1リクエストで行います。
type RegistrationService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error)
}

type registrationService struct {
	cognito   awsclient.CognitoAPI
	registry  repository.TenantRegistry
	directory repository.DirectoryRepository
	mailer    Mailer
	cfg       *config.Config
}

func NewRegistrationService(
	cognito awsclient.CognitoAPI,
	registry repository.TenantRegistry,
	directory repository.DirectoryRepository,
	mailer Mailer,
	cfg *config.Config,
) RegistrationService {
	return &registrationService{
		cognito:   cognito,
		registry:  registry,
		directory: directory,
		mailer:    mailer,
		cfg:       cfg,
	}
}

func (s *registrationService) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	logger := middleware.GetLogger(ctx)

	tenantID := uuid.NewString()
	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("registrationService.Register: generate password: %w", err)
	}

	// 1. IDプロバイダにユーザーを作成します。招待メールは送らず (SUPPRESS)、
	//    ウェルカムメールはこちらから送信します。
	_, err = s.cognito.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:    aws.String(s.cfg.Cognito.UserPoolID),
		Username:      aws.String(req.AdminEmail),
		MessageAction: cognitotypes.MessageActionTypeSuppress,
		UserAttributes: []cognitotypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(req.AdminEmail)},
			{Name: aws.String("name"), Value: aws.String(req.AdminName)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
			{Name: aws.String("custom:tenant_id"), Value: aws.String(tenantID)},
			{Name: aws.String("custom:company_name"), Value: aws.String(req.CompanyName)},
		},
	})
	if err != nil {
		var exists *cognitotypes.UsernameExistsException
		if errors.As(err, &exists) {
			return nil, model.NewAppError("EMAIL_TAKEN",
				"このメールアドレスは既に登録されています。", "adminEmail", model.ErrConflict)
		}
		logger.Error("Error creating identity provider user", "error", err, "email", req.AdminEmail)
		return nil, fmt.Errorf("registrationService.Register: create user: %w", err)
	}

	// 仮パスワードの変更を強制しないよう、恒久パスワードとして設定します
	_, err = s.cognito.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(s.cfg.Cognito.UserPoolID),
		Username:   aws.String(req.AdminEmail),
		Password:   aws.String(tempPassword),
		Permanent:  true,
	})
	if err != nil {
		logger.Error("Error setting user password", "error", err, "email", req.AdminEmail)
		return nil, fmt.Errorf("registrationService.Register: set password: %w", err)
	}

	// 2. レジストリに登録レコードを書き込みます
	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(s.cfg.Registration.TrialDays) * 24 * time.Hour)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusActive, map[string]string{
		"company_name":     req.CompanyName,
		"admin_email":      req.AdminEmail,
		"admin_name":       req.AdminName,
		"plan":             req.Plan,
		"url":              s.cfg.Registration.InstanceURL,
		"created_at":       now.Format(time.RFC3339),
		"trial_expires_at": expiresAt.Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("registrationService.Register: save record: %w", err)
	}

	// 3. ディレクトリ連携はベストエフォートです。
	//    失敗しても登録は成立させますが、結果は必ずレスポンスに載せます。
	directorySynced := false
	if s.cfg.LDAP.Enabled {
		if err := s.directory.RegisterAdminUser(ctx, tenantID, req.AdminEmail, req.AdminName, tempPassword); err != nil {
			logger.Warn("Directory sync failed, continuing registration", "error", err, "email", req.AdminEmail)
		} else {
			directorySynced = true
		}
	}

	// 4. ウェルカムメール。送信失敗も登録自体は成立させます。
	subject := fmt.Sprintf("【%s】アカウント登録のお知らせ", req.CompanyName)
	body := fmt.Sprintf(
		"%s 様\n\nアカウントの登録が完了しました。\n\nURL: %s\nユーザー名: %s\n初期パスワード: %s\n\nログイン後、パスワードを変更してください。\n",
		req.AdminName, s.cfg.Registration.InstanceURL, req.AdminEmail, tempPassword,
	)
	if err := s.mailer.Send(ctx, req.AdminEmail, subject, body); err != nil {
		logger.Warn("Failed to send welcome email", "error", err, "email", req.AdminEmail)
	}

	logger.Info("Registration completed",
		"tenant_id", tenantID,
		"email", req.AdminEmail,
		"directory_synced", directorySynced,
	)
	return &model.RegisterResponse{
		Success:         true,
		TenantID:        tenantID,
		InstanceURL:     s.cfg.Registration.InstanceURL,
		AdminUsername:   req.AdminEmail,
		DirectorySynced: directorySynced,
		Message:         "登録が完了しました。メールをご確認ください。",
	}, nil
}

const (
	passwordLength = 16
	lowerChars     = "abcdefghijkmnpqrstuvwxyz"
	upperChars     = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars     = "23456789"
	symbolChars    = "!#$%&*+-="
)

// generateTempPassword はユーザープールのパスワードポリシーを満たす
// 初期パスワードを生成します。
func generateTempPassword() (string, error) {
	all := lowerChars + upperChars + digitChars + symbolChars

	buf := make([]byte, passwordLength)
	// 各文字種を最低1文字含めます
	classes := []string{lowerChars, upperChars, digitChars, symbolChars}
	for i := range buf {
		var pool string
		if i < len(classes) {
			pool = classes[i]
		} else {
			pool = all
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return "", err
		}
		buf[i] = pool[n.Int64()]
	}

	// 先頭に文字種の並びが固定で残らないようシャッフルします
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}
