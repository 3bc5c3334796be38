//go:generate mockery --name StatusChecker --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_saas_provisioner/internal/awsclient"
	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// logSearchWindow はバックエンドログを遡って検索する期間です。
const logSearchWindow = 10 * time.Minute

// StatusChecker はデプロイ済みテナントの稼働状態を判定します。
// 判定結果は healthy / unhealthy の2値で、呼び出し元にエラーを返しません。
// 判定中の失敗はすべて unhealthy + 理由として報告されます。
type StatusChecker interface {
	Check(ctx context.Context, req model.StatusCheckRequest) model.HealthResult
}

type statusChecker struct {
	registry repository.TenantRegistry
	ecs      awsclient.ECSAPI
	elb      awsclient.ELBAPI
	logs     awsclient.LogsAPI
	cfg      *config.ProvisioningConfig
}

func NewStatusChecker(
	registry repository.TenantRegistry,
	ecsAPI awsclient.ECSAPI,
	elbAPI awsclient.ELBAPI,
	logsAPI awsclient.LogsAPI,
	cfg *config.ProvisioningConfig,
) StatusChecker {
	return &statusChecker{
		registry: registry,
		ecs:      ecsAPI,
		elb:      elbAPI,
		logs:     logsAPI,
		cfg:      cfg,
	}
}

func (c *statusChecker) Check(ctx context.Context, req model.StatusCheckRequest) model.HealthResult {
	logger := middleware.GetLogger(ctx)

	tenant, err := c.registry.Get(ctx, req.TenantID)
	if err != nil {
		logger.Error("Status check could not load tenant", "tenant_id", req.TenantID, "error", err)
		return unhealthy(req.TenantID, err.Error())
	}

	// イベント側にサブドメインがあれば優先し、なければレコードの値を使います
	subdomain := req.Subdomain
	if subdomain == "" {
		subdomain = tenant.Subdomain
	}

	switch model.CheckType(req.CheckType) {
	case model.CheckBackend:
		return c.checkBackend(ctx, tenant)
	case model.CheckBackendLogs:
		return c.checkBackendLogs(ctx, tenant, subdomain)
	case model.CheckFrontend:
		return c.checkFrontend(tenant)
	default:
		return unhealthy(req.TenantID, fmt.Sprintf("Unknown check type: %s", req.CheckType))
	}
}

func (c *statusChecker) checkBackend(ctx context.Context, tenant *model.Tenant) model.HealthResult {
	logger := middleware.GetLogger(ctx)

	out, err := c.ecs.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(c.cfg.ClusterName),
		Services: []string{tenant.BackendServiceArn},
	})
	if err != nil {
		logger.Error("Backend health check error", "tenant_id", tenant.TenantID, "error", err)
		return unhealthy(tenant.TenantID, err.Error())
	}
	if len(out.Services) == 0 {
		return unhealthy(tenant.TenantID, "Service not found")
	}
	if out.Services[0].RunningCount == 0 {
		return unhealthy(tenant.TenantID, "No running tasks")
	}

	// ターゲットグループが登録済みなら、1つ以上healthyなターゲットを要求します
	if tenant.BackendTargetGroupArn != "" {
		healthOut, err := c.elb.DescribeTargetHealth(ctx, &elasticloadbalancingv2.DescribeTargetHealthInput{
			TargetGroupArn: aws.String(tenant.BackendTargetGroupArn),
		})
		if err != nil {
			logger.Error("Target health check error", "tenant_id", tenant.TenantID, "error", err)
			return unhealthy(tenant.TenantID, err.Error())
		}

		healthyTargets := 0
		for _, desc := range healthOut.TargetHealthDescriptions {
			if desc.TargetHealth != nil && desc.TargetHealth.State == elbtypes.TargetHealthStateEnumHealthy {
				healthyTargets++
			}
		}
		if healthyTargets == 0 {
			return unhealthy(tenant.TenantID, "No healthy targets")
		}
	}

	return model.HealthResult{TenantID: tenant.TenantID, Status: model.Healthy}
}

// checkBackendLogs は直近のログから起動完了メッセージを探します。
// ロググループ未作成 (起動直後) と、メッセージ未検出を区別して返します。
func (c *statusChecker) checkBackendLogs(ctx context.Context, tenant *model.Tenant, subdomain string) model.HealthResult {
	logger := middleware.GetLogger(ctx)

	logGroup := fmt.Sprintf("/ecs/%s-%s-backend", c.cfg.ResourcePrefix, subdomain)
	now := time.Now()
	start := now.Add(-logSearchWindow)

	out, err := c.logs.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:  aws.String(logGroup),
		StartTime:     aws.Int64(start.UnixMilli()),
		EndTime:       aws.Int64(now.UnixMilli()),
		FilterPattern: aws.String(fmt.Sprintf("%q", c.cfg.StartupMarker)),
	})
	if err != nil {
		logger.Error("Backend logs check error", "tenant_id", tenant.TenantID, "log_group", logGroup, "error", err)

		var notFound *logstypes.ResourceNotFoundException
		if errors.As(err, &notFound) || strings.Contains(err.Error(), "does not exist") {
			return unhealthy(tenant.TenantID, "Service still starting - log group not created yet")
		}
		return unhealthy(tenant.TenantID, err.Error())
	}

	if len(out.Events) > 0 {
		return model.HealthResult{
			TenantID: tenant.TenantID,
			Status:   model.Healthy,
			Message:  "Application started successfully",
		}
	}
	return unhealthy(tenant.TenantID, "Startup message not found in logs")
}

// checkFrontend はフロントエンド専用の判定がまだ無いため、常にhealthyを返します。
// TODO: フロントエンドのターゲットヘルス判定を checkBackend と同様に実装する
func (c *statusChecker) checkFrontend(tenant *model.Tenant) model.HealthResult {
	return model.HealthResult{TenantID: tenant.TenantID, Status: model.Healthy}
}

func unhealthy(tenantID, reason string) model.HealthResult {
	return model.HealthResult{TenantID: tenantID, Status: model.Unhealthy, Reason: reason}
}
