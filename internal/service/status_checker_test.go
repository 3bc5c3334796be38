// internal/service/status_checker_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"go_saas_provisioner/internal/model"

	awsmocks "go_saas_provisioner/internal/awsclient/mocks"
	repomocks "go_saas_provisioner/internal/repository/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type checkerMocks struct {
	registry *repomocks.TenantRegistry
	ecs      *awsmocks.ECSAPI
	elb      *awsmocks.ELBAPI
	logs     *awsmocks.LogsAPI
}

func newTestStatusChecker() (StatusChecker, *checkerMocks) {
	m := &checkerMocks{
		registry: new(repomocks.TenantRegistry),
		ecs:      new(awsmocks.ECSAPI),
		elb:      new(awsmocks.ELBAPI),
		logs:     new(awsmocks.LogsAPI),
	}
	checker := NewStatusChecker(m.registry, m.ecs, m.elb, m.logs, newTestProvisioningConfig())
	return checker, m
}

func deployedTenant() *model.Tenant {
	return &model.Tenant{
		TenantID:              "tenant-123",
		Subdomain:             "acme",
		Status:                model.StatusBackendDeploying,
		BackendServiceArn:     "arn:service/saas-acme-backend",
		BackendTargetGroupArn: "arn:targetgroup/acme-be-tg",
	}
}

func Test_statusChecker_Check_Backend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMock  func(m *checkerMocks)
		wantStatus model.HealthStatus
		wantReason string
	}{
		{
			name: "正常系: タスク稼働中かつhealthyなターゲットあり",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.ecs.On("DescribeServices", ctx, mock.AnythingOfType("*ecs.DescribeServicesInput")).
					Return(&ecs.DescribeServicesOutput{
						Services: []ecstypes.Service{{RunningCount: 1}},
					}, nil).Once()
				m.elb.On("DescribeTargetHealth", ctx, mock.AnythingOfType("*elasticloadbalancingv2.DescribeTargetHealthInput")).
					Return(&elasticloadbalancingv2.DescribeTargetHealthOutput{
						TargetHealthDescriptions: []elbtypes.TargetHealthDescription{
							{TargetHealth: &elbtypes.TargetHealth{State: elbtypes.TargetHealthStateEnumUnhealthy}},
							{TargetHealth: &elbtypes.TargetHealth{State: elbtypes.TargetHealthStateEnumHealthy}},
						},
					}, nil).Once()
			},
			wantStatus: model.Healthy,
		},
		{
			name: "異常系: サービスが見つからない",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.ecs.On("DescribeServices", ctx, mock.AnythingOfType("*ecs.DescribeServicesInput")).
					Return(&ecs.DescribeServicesOutput{}, nil).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "Service not found",
		},
		{
			name: "異常系: 稼働中タスクが0",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.ecs.On("DescribeServices", ctx, mock.AnythingOfType("*ecs.DescribeServicesInput")).
					Return(&ecs.DescribeServicesOutput{
						Services: []ecstypes.Service{{RunningCount: 0}},
					}, nil).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "No running tasks",
		},
		{
			name: "異常系: healthyなターゲットが1つもない",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.ecs.On("DescribeServices", ctx, mock.AnythingOfType("*ecs.DescribeServicesInput")).
					Return(&ecs.DescribeServicesOutput{
						Services: []ecstypes.Service{{RunningCount: 1}},
					}, nil).Once()
				m.elb.On("DescribeTargetHealth", ctx, mock.AnythingOfType("*elasticloadbalancingv2.DescribeTargetHealthInput")).
					Return(&elasticloadbalancingv2.DescribeTargetHealthOutput{
						TargetHealthDescriptions: []elbtypes.TargetHealthDescription{
							{TargetHealth: &elbtypes.TargetHealth{State: elbtypes.TargetHealthStateEnumInitial}},
						},
					}, nil).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "No healthy targets",
		},
		{
			name: "異常系: APIエラーは理由として報告",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.ecs.On("DescribeServices", ctx, mock.AnythingOfType("*ecs.DescribeServicesInput")).
					Return(nil, errors.New("throttled")).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "throttled",
		},
		{
			name: "異常系: テナントレコードが読めない",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(nil, model.ErrTenantNotFound).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: model.ErrTenantNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, m := newTestStatusChecker()
			tt.setupMock(m)

			result := checker.Check(ctx, model.StatusCheckRequest{
				TenantID:  "tenant-123",
				CheckType: string(model.CheckBackend),
			})

			assert.Equal(t, "tenant-123", result.TenantID)
			assert.Equal(t, tt.wantStatus, result.Status)
			if tt.wantReason != "" {
				assert.Contains(t, result.Reason, tt.wantReason)
			}
			m.registry.AssertExpectations(t)
			m.ecs.AssertExpectations(t)
			m.elb.AssertExpectations(t)
		})
	}
}

func Test_statusChecker_Check_BackendLogs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		subdomain  string
		setupMock  func(m *checkerMocks)
		wantStatus model.HealthStatus
		wantReason string
		wantMsg    string
	}{
		{
			name: "正常系: 起動完了メッセージが見つかる",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.logs.On("FilterLogEvents", ctx, mock.MatchedBy(func(input *cloudwatchlogs.FilterLogEventsInput) bool {
					return aws.ToString(input.LogGroupName) == "/ecs/saas-acme-backend" &&
						aws.ToString(input.FilterPattern) == `"Started Application"` &&
						input.StartTime != nil && input.EndTime != nil
				})).Return(&cloudwatchlogs.FilterLogEventsOutput{
					Events: []logstypes.FilteredLogEvent{
						{Message: aws.String("Started Application in 42.0 seconds")},
					},
				}, nil).Once()
			},
			wantStatus: model.Healthy,
			wantMsg:    "Application started successfully",
		},
		{
			name:      "正常系: リクエストのサブドメインがレコードより優先される",
			subdomain: "other",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.logs.On("FilterLogEvents", ctx, mock.MatchedBy(func(input *cloudwatchlogs.FilterLogEventsInput) bool {
					return aws.ToString(input.LogGroupName) == "/ecs/saas-other-backend"
				})).Return(&cloudwatchlogs.FilterLogEventsOutput{
					Events: []logstypes.FilteredLogEvent{{Message: aws.String("Started Application")}},
				}, nil).Once()
			},
			wantStatus: model.Healthy,
		},
		{
			name: "異常系: ロググループ未作成は起動中として区別する",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.logs.On("FilterLogEvents", ctx, mock.AnythingOfType("*cloudwatchlogs.FilterLogEventsInput")).
					Return(nil, &logstypes.ResourceNotFoundException{
						Message: aws.String("The specified log group does not exist."),
					}).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "Service still starting - log group not created yet",
		},
		{
			name: "異常系: メッセージ未検出",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.logs.On("FilterLogEvents", ctx, mock.AnythingOfType("*cloudwatchlogs.FilterLogEventsInput")).
					Return(&cloudwatchlogs.FilterLogEventsOutput{}, nil).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "Startup message not found in logs",
		},
		{
			name: "異常系: その他のAPIエラーは理由として報告",
			setupMock: func(m *checkerMocks) {
				m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()
				m.logs.On("FilterLogEvents", ctx, mock.AnythingOfType("*cloudwatchlogs.FilterLogEventsInput")).
					Return(nil, errors.New("access denied")).Once()
			},
			wantStatus: model.Unhealthy,
			wantReason: "access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, m := newTestStatusChecker()
			tt.setupMock(m)

			result := checker.Check(ctx, model.StatusCheckRequest{
				TenantID:  "tenant-123",
				CheckType: string(model.CheckBackendLogs),
				Subdomain: tt.subdomain,
			})

			assert.Equal(t, tt.wantStatus, result.Status)
			if tt.wantReason != "" {
				assert.Contains(t, result.Reason, tt.wantReason)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, result.Message)
			}
			m.registry.AssertExpectations(t)
			m.logs.AssertExpectations(t)
		})
	}
}

func Test_statusChecker_Check_Frontend(t *testing.T) {
	ctx := context.Background()
	checker, m := newTestStatusChecker()
	m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()

	result := checker.Check(ctx, model.StatusCheckRequest{
		TenantID:  "tenant-123",
		CheckType: string(model.CheckFrontend),
	})

	assert.Equal(t, model.Healthy, result.Status)
	m.registry.AssertExpectations(t)
}

func Test_statusChecker_Check_UnknownType(t *testing.T) {
	ctx := context.Background()
	checker, m := newTestStatusChecker()
	m.registry.On("Get", ctx, "tenant-123").Return(deployedTenant(), nil).Once()

	result := checker.Check(ctx, model.StatusCheckRequest{
		TenantID:  "tenant-123",
		CheckType: "database",
	})

	assert.Equal(t, model.Unhealthy, result.Status)
	assert.Contains(t, result.Reason, "Unknown check type")
	m.registry.AssertExpectations(t)
}
