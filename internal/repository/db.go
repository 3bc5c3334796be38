package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_saas_provisioner/internal/awsclient"
	"go_saas_provisioner/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"               // postgresドライバ
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dbSecret はSecrets Managerに格納するDB認証情報のJSON形式です。
type dbSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewAdminDB はテナントデータベースの作成・一覧に使う管理者接続を確立します。
// database.secret_id が設定されている場合はSecrets Managerからパスワードを解決し、
// 未設定の場合は設定ファイル (環境変数 APP_DB_PASSWORD) の値をそのまま使います。
func NewAdminDB(ctx context.Context, cfg *config.Config, secrets awsclient.SecretsAPI, appLogger *slog.Logger) (*gorm.DB, error) {
	user := cfg.Database.User
	password := cfg.Database.Password

	if cfg.Database.SecretID != "" {
		out, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(cfg.Database.SecretID),
		})
		if err != nil {
			appLogger.Error("Failed to get database secret", slog.Any("error", err), slog.String("secret_id", cfg.Database.SecretID))
			return nil, fmt.Errorf("NewAdminDB: get secret: %w", err)
		}
		var secret dbSecret
		if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &secret); err != nil {
			appLogger.Error("Failed to parse database secret", slog.Any("error", err))
			return nil, fmt.Errorf("NewAdminDB: parse secret: %w", err)
		}
		if secret.Username != "" {
			user = secret.Username
		}
		password = secret.Password
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, user, password, cfg.Database.AdminDB, cfg.Database.SSLMode)

	return openGorm(dsn, appLogger)
}

// openGorm はslogをバックエンドにしたGORM接続を開きます。
func openGorm(dsn string, appLogger *slog.Logger) (*gorm.DB, error) {

	// === slog を利用する GORM Logger の設定 ===
	var gormLogLevel gormlogger.LogLevel
	// 例: 環境変数 APP_ENV によって GORM のログレベルを切り替え
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	// slog-gorm ロガーを作成 (slogGorm.Interface を返す)
	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond), // 遅いクエリの閾値を調整
	)

	finalGormLogger := slogGormLogger.LogMode(gormLogLevel)

	// === GORM 接続設定 ===
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: finalGormLogger,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	// Pingで接続確認
	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close() // Ping失敗時はここでClose
		return nil, err
	}

	// コネクションプールの設定
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	appLogger.Info("Database connection established with GORM")

	return db, nil
}
