//go:generate mockery --name TenantRegistry --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"go_saas_provisioner/internal/awsclient"
)

// subdomainIndex は subdomain をパーティションキーとするGSIの名前です。
const subdomainIndex = "subdomain-index"

// TenantRegistry はテナントごとのワークフロー状態とリソース識別子を永続化するストアです。
// 更新は部分的な属性アップサートで行い、status と updated_at は常に書き換えます。
type TenantRegistry interface {
	Get(ctx context.Context, tenantID string) (*model.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	CreateRecord(ctx context.Context, tenant *model.Tenant) error
	UpdateStatus(ctx context.Context, tenantID string, status model.Status, extra map[string]string) error
}

type dynamoTenantRegistry struct {
	client    awsclient.DynamoDBAPI
	tableName string
}

func NewDynamoTenantRegistry(client awsclient.DynamoDBAPI, tableName string) TenantRegistry {
	return &dynamoTenantRegistry{client: client, tableName: tableName}
}

func (r *dynamoTenantRegistry) Get(ctx context.Context, tenantID string) (*model.Tenant, error) {
	logger := middleware.GetLogger(ctx)

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"tenant_id": &types.AttributeValueMemberS{Value: tenantID},
		},
	})
	if err != nil {
		logger.Error("Error getting tenant from registry", "error", err, "tenant_id", tenantID)
		return nil, fmt.Errorf("dynamoTenantRegistry.Get: %w", err)
	}
	if out.Item == nil {
		return nil, model.ErrTenantNotFound
	}

	var tenant model.Tenant
	if err := attributevalue.UnmarshalMap(out.Item, &tenant); err != nil {
		logger.Error("Error unmarshalling tenant item", "error", err, "tenant_id", tenantID)
		return nil, fmt.Errorf("dynamoTenantRegistry.Get: unmarshal: %w", err)
	}
	return &tenant, nil
}

func (r *dynamoTenantRegistry) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	logger := middleware.GetLogger(ctx)

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(subdomainIndex),
		KeyConditionExpression: aws.String("subdomain = :subdomain"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":subdomain": &types.AttributeValueMemberS{Value: subdomain},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		logger.Error("Error querying tenant by subdomain", "error", err, "subdomain", subdomain)
		return nil, fmt.Errorf("dynamoTenantRegistry.FindBySubdomain: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, model.ErrNotFound
	}

	var tenant model.Tenant
	if err := attributevalue.UnmarshalMap(out.Items[0], &tenant); err != nil {
		logger.Error("Error unmarshalling tenant item", "error", err, "subdomain", subdomain)
		return nil, fmt.Errorf("dynamoTenantRegistry.FindBySubdomain: unmarshal: %w", err)
	}
	return &tenant, nil
}

// CreateRecord は validate ステップで初期レコードを書き込みます。
func (r *dynamoTenantRegistry) CreateRecord(ctx context.Context, tenant *model.Tenant) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	return r.update(ctx, tenant.TenantID, tenant.Status, map[string]string{
		"subdomain":    tenant.Subdomain,
		"company_name": tenant.CompanyName,
		"admin_email":  tenant.AdminEmail,
		"plan":         tenant.Plan,
		"created_at":   tenant.CreatedAt,
	})
}

// UpdateStatus は status と updated_at に加え、extra の属性を文字列化して書き込みます。
func (r *dynamoTenantRegistry) UpdateStatus(ctx context.Context, tenantID string, status model.Status, extra map[string]string) error {
	return r.update(ctx, tenantID, status, extra)
}

func (r *dynamoTenantRegistry) update(ctx context.Context, tenantID string, status model.Status, extra map[string]string) error {
	logger := middleware.GetLogger(ctx)

	updateExpression := "SET #status = :status, updated_at = :updated_at"
	names := map[string]string{"#status": "status"}
	values := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: string(status)},
		":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	// イテレーション順を安定させる (テストと式の再現性のため)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, key := range keys {
		attrName := fmt.Sprintf("#attr%d", i)
		attrValue := fmt.Sprintf(":val%d", i)
		updateExpression += fmt.Sprintf(", %s = %s", attrName, attrValue)
		names[attrName] = key
		values[attrValue] = &types.AttributeValueMemberS{Value: extra[key]}
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"tenant_id": &types.AttributeValueMemberS{Value: tenantID},
		},
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		logger.Error("Error updating tenant status in registry",
			"error", err,
			"tenant_id", tenantID,
			"status", string(status),
		)
		return fmt.Errorf("dynamoTenantRegistry.update: %w", err)
	}
	return nil
}
