//go:generate mockery --name SchemaManager --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// duplicateDatabaseCode はPostgreSQLの duplicate_database エラーコードです。
// 再実行時に同名データベースが既にあっても成功として扱います。
const duplicateDatabaseCode = "42P04"

// databaseNamePattern はテナントDB名として許可する識別子の形式です。
// サブドメインをそのままDB名に使うため、同じ文字種に限定します。
// CREATE DATABASE はプレースホルダを使えないため、ここで厳密に検証します。
var databaseNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,62}$`)

// SchemaManager はテナントごとのデータベースを管理する操作です。
type SchemaManager interface {
	CreateTenantDatabase(ctx context.Context, name string) (created bool, err error)
	ListSchemas(ctx context.Context) ([]string, error)
}

type postgresSchemaManager struct {
	db *gorm.DB
}

func NewPostgresSchemaManager(db *gorm.DB) SchemaManager {
	return &postgresSchemaManager{db: db}
}

// CreateTenantDatabase はテナント専用データベースを作成します。
// 既に存在する場合 (42P04) はエラーにせず created=false を返します。
func (m *postgresSchemaManager) CreateTenantDatabase(ctx context.Context, name string) (bool, error) {
	logger := middleware.GetLogger(ctx)

	if !databaseNamePattern.MatchString(name) {
		return false, model.NewAppError("INVALID_DATABASE_NAME",
			fmt.Sprintf("データベース名 '%s' は使用できません。", name), "", model.ErrInvalidInput)
	}

	// 識別子は上で検証済みです。CREATE DATABASE はトランザクション外で実行されます。
	err := m.db.WithContext(ctx).Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, name)).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabaseCode {
			logger.Info("Tenant database already exists, skipping creation", "database", name)
			return false, nil
		}
		logger.Error("Error creating tenant database", "error", err, "database", name)
		return false, fmt.Errorf("postgresSchemaManager.CreateTenantDatabase: %w", err)
	}

	logger.Info("Tenant database created", "database", name)
	return true, nil
}

// ListSchemas はシステム用を除いたデータベース名の一覧を返します。
func (m *postgresSchemaManager) ListSchemas(ctx context.Context) ([]string, error) {
	logger := middleware.GetLogger(ctx)

	var names []string
	err := m.db.WithContext(ctx).
		Raw(`SELECT datname FROM pg_database
		     WHERE datistemplate = false
		       AND datname NOT IN ('postgres', 'rdsadmin')
		     ORDER BY datname`).
		Scan(&names).Error
	if err != nil {
		logger.Error("Error listing tenant databases", "error", err)
		return nil, fmt.Errorf("postgresSchemaManager.ListSchemas: %w", err)
	}
	return names, nil
}
