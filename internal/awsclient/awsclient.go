// Package awsclient は aws-sdk-go-v2 のクライアント生成を一箇所に集約するパッケージです。
// グローバルなクライアントは持たず、生成したものを各サービスへ明示的に注入します。
package awsclient

import (
	"context"
	"log/slog"

	"go_saas_provisioner/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// NewAWSConfig は設定に応じて認証方法を切り替えて aws.Config を生成します。
func NewAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error

	awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.AWS.Region))

	switch cfg.AWS.AuthType {
	case "static_credentials":
		// --- 静的認証情報 (アクセスキー) を使う場合 ---
		slog.Info("Configuring AWS clients with static credentials.")
		if cfg.AWS.AccessKeyID == "" || cfg.AWS.SecretAccessKey == "" {
			slog.Error("AWS auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			panic("missing static credentials for AWS")
		}
		creds := credentials.NewStaticCredentialsProvider(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))

	case "iam_role":
		// --- IAMロール (ECS Task Role など) を使う場合 ---
		// SDKが自動で認証情報を解決するため、特別な設定は不要
		slog.Info("Configuring AWS clients with IAM Role credentials.")

	default:
		slog.Warn("Unknown AWS auth_type specified, defaulting to IAM Role.", "type", cfg.AWS.AuthType)
	}

	return awsconfig.LoadDefaultConfig(ctx, awsCfgOpts...)
}
