// internal/repository/schema_repository_test.go
package repository

import (
	"context"
	"testing"

	"go_saas_provisioner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_postgresSchemaManager_CreateTenantDatabase_NameValidation(t *testing.T) {
	ctx := context.Background()
	// 名前検証はDBアクセスより先に行われる
	manager := NewPostgresSchemaManager(nil)

	tests := []struct {
		name   string
		dbName string
	}{
		{name: "異常系: 空文字", dbName: ""},
		{name: "異常系: 短すぎる", dbName: "ab"},
		{name: "異常系: 大文字を含む", dbName: "Acme"},
		{name: "異常系: 引用符の混入", dbName: `acme"; DROP DATABASE postgres; --`},
		{name: "異常系: 空白を含む", dbName: "acme corp"},
		{name: "異常系: 先頭が記号", dbName: "-acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := manager.CreateTenantDatabase(ctx, tt.dbName)

			require.Error(t, err)
			assert.False(t, created)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "INVALID_DATABASE_NAME", appErr.Detail.Code)
		})
	}
}

func Test_databaseNamePattern(t *testing.T) {
	// サブドメインとして通る名前はそのままDB名としても通ること
	valid := []string{"acme", "acme-001", "3mcompany", "tenant_a"}
	for _, name := range valid {
		assert.True(t, databaseNamePattern.MatchString(name), name)
	}
}
