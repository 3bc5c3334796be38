//go:generate mockery --name ProvisioningService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"time"

	"go_saas_provisioner/internal/awsclient"
	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/google/uuid"
)

// subdomainPattern はテナントのサブドメインとして許可する形式です。
var subdomainPattern = regexp.MustCompile(`^[a-z0-9-]{3,20}$`)

// ProvisioningService はテナントプロビジョニングの1ステップを実行します。
// ステップの順序制御は上位のステートマシンが行い、本サービスはステートレスです。
type ProvisioningService interface {
	Execute(ctx context.Context, req model.ProvisionRequest) (any, error)
}

type provisioningService struct {
	registry repository.TenantRegistry
	schemas  repository.SchemaManager
	ecs      awsclient.ECSAPI
	elb      awsclient.ELBAPI
	dns      awsclient.Route53API
	acm      awsclient.ACMAPI
	logs     awsclient.LogsAPI
	cfg      *config.ProvisioningConfig
}

func NewProvisioningService(
	registry repository.TenantRegistry,
	schemas repository.SchemaManager,
	ecsAPI awsclient.ECSAPI,
	elbAPI awsclient.ELBAPI,
	dnsAPI awsclient.Route53API,
	acmAPI awsclient.ACMAPI,
	logsAPI awsclient.LogsAPI,
	cfg *config.ProvisioningConfig,
) ProvisioningService {
	return &provisioningService{
		registry: registry,
		schemas:  schemas,
		ecs:      ecsAPI,
		elb:      elbAPI,
		dns:      dnsAPI,
		acm:      acmAPI,
		logs:     logsAPI,
		cfg:      cfg,
	}
}

// Execute はアクションに応じたステップを実行します。
// validate と list_schemas 以外のステップが失敗した場合は、
// エラーを返す前に failed ステータスとエラーメッセージをレジストリへ書き込みます。
// ただしテナントが見つからないエラーは、存在しないIDのレコードを
// 作ってしまわないよう書き込みを行いません。
func (s *provisioningService) Execute(ctx context.Context, req model.ProvisionRequest) (any, error) {
	logger := middleware.GetLogger(ctx)

	action, err := model.ParseAction(req.Action)
	if err != nil {
		return nil, model.NewAppError("INVALID_ACTION", fmt.Sprintf("不明なアクションです: %s", req.Action), "action", err)
	}

	result, err := s.dispatch(ctx, action, req)
	if err != nil {
		logger.Error("Provisioning step failed", "action", string(action), "tenant_id", req.TenantID, "error", err)

		if action != model.ActionValidate && action != model.ActionListSchemas &&
			!errors.Is(err, model.ErrTenantNotFound) {
			if uerr := s.registry.UpdateStatus(ctx, req.TenantID, model.StatusFailed, map[string]string{
				"error": err.Error(),
			}); uerr != nil {
				logger.Error("Failed to record failure status", "tenant_id", req.TenantID, "error", uerr)
			}
		}
		return nil, err
	}
	return result, nil
}

func (s *provisioningService) dispatch(ctx context.Context, action model.Action, req model.ProvisionRequest) (any, error) {
	switch action {
	case model.ActionValidate:
		return s.validate(ctx, req.Input)
	case model.ActionCreateSchema:
		return s.createSchema(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateBackendTaskDef:
		return s.createBackendTaskDefinition(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateFrontendTaskDef:
		return s.createFrontendTaskDefinition(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateBackendTG:
		return s.createBackendTargetGroup(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateFrontendTG:
		return s.createFrontendTargetGroup(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateBackendALBRule:
		return s.createBackendALBRule(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateFrontendALBRule:
		return s.createFrontendALBRule(ctx, req.TenantID, req.Subdomain)
	case model.ActionDeployBackend:
		return s.deployBackendService(ctx, req.TenantID, req.Subdomain)
	case model.ActionDeployFrontend:
		return s.deployFrontendService(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateDNS:
		return s.createDNSRecord(ctx, req.TenantID, req.Subdomain)
	case model.ActionCreateCertificate:
		return s.createCertificate(ctx, req.TenantID, req.Subdomain)
	case model.ActionFinalize:
		return s.finalize(ctx, req.TenantID, req.Subdomain)
	case model.ActionListSchemas:
		return s.listSchemas(ctx), nil
	default:
		// ParseAction で弾かれるため到達しません
		return nil, fmt.Errorf("unhandled action: %s: %w", action, model.ErrInternalServer)
	}
}

// --- validate ---

func (s *provisioningService) validate(ctx context.Context, input model.ValidateInput) (*model.ValidateResult, error) {
	logger := middleware.GetLogger(ctx)
	signup := input.Normalize()

	if signup.Subdomain == "" || signup.CompanyName == "" || signup.AdminEmail == "" || signup.Plan == "" {
		return nil, model.NewAppError("MISSING_FIELDS", "必須項目が不足しています。", "", model.ErrInvalidInput)
	}
	if !subdomainPattern.MatchString(signup.Subdomain) {
		return nil, model.NewAppError("INVALID_SUBDOMAIN",
			"サブドメインは3〜20文字の英小文字・数字・ハイフンで指定してください。", "subdomain", model.ErrInvalidInput)
	}

	// 重複チェック。未登録 (ErrNotFound) のみ続行できます。
	existing, err := s.registry.FindBySubdomain(ctx, signup.Subdomain)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("validate: check subdomain availability: %w", err)
	}
	if existing != nil {
		return nil, model.NewAppError("SUBDOMAIN_TAKEN",
			fmt.Sprintf("サブドメイン '%s' は既に使用されています。", signup.Subdomain), "subdomain", model.ErrConflict)
	}

	tenant := &model.Tenant{
		TenantID:    uuid.NewString(),
		Subdomain:   signup.Subdomain,
		CompanyName: signup.CompanyName,
		AdminEmail:  signup.AdminEmail,
		Plan:        signup.Plan,
		Status:      model.StatusValidated,
	}
	if err := s.registry.CreateRecord(ctx, tenant); err != nil {
		return nil, fmt.Errorf("validate: create tenant record: %w", err)
	}

	logger.Info("Tenant validated", "tenant_id", tenant.TenantID, "subdomain", tenant.Subdomain)
	return &model.ValidateResult{
		TenantID:    tenant.TenantID,
		Subdomain:   tenant.Subdomain,
		Plan:        tenant.Plan,
		AdminEmail:  tenant.AdminEmail,
		CompanyName: tenant.CompanyName,
		Status:      model.StatusValidated,
	}, nil
}

// --- create_schema / list_schemas ---

func (s *provisioningService) createSchema(ctx context.Context, tenantID, subdomain string) (*model.SchemaResult, error) {
	if _, err := s.schemas.CreateTenantDatabase(ctx, subdomain); err != nil {
		return nil, fmt.Errorf("create_schema: %w", err)
	}
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusDatabaseReady, nil); err != nil {
		return nil, err
	}
	return &model.SchemaResult{TenantID: tenantID, Subdomain: subdomain, Status: model.StatusDatabaseReady}, nil
}

// listSchemas は診断用のため、エラーもレスポンスとして返します。
func (s *provisioningService) listSchemas(ctx context.Context) *model.ListSchemasResult {
	schemas, err := s.schemas.ListSchemas(ctx)
	if err != nil {
		return &model.ListSchemasResult{Status: "error", Error: err.Error()}
	}
	return &model.ListSchemasResult{Status: "success", Schemas: schemas, Count: len(schemas)}
}

// --- task definitions ---

// ensureLogGroup はロググループを作成します。既存の場合は成功扱いです。
func (s *provisioningService) ensureLogGroup(ctx context.Context, name string) error {
	logger := middleware.GetLogger(ctx)

	_, err := s.logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
	})
	if err != nil {
		var exists *logstypes.ResourceAlreadyExistsException
		if errors.As(err, &exists) {
			logger.Info("Log group already exists", "log_group", name)
			return nil
		}
		return fmt.Errorf("create log group %s: %w", name, err)
	}
	logger.Info("Created log group", "log_group", name)
	return nil
}

func (s *provisioningService) createBackendTaskDefinition(ctx context.Context, tenantID, subdomain string) (*model.TaskDefinitionResult, error) {
	logGroup := s.backendLogGroup(subdomain)
	if err := s.ensureLogGroup(ctx, logGroup); err != nil {
		return nil, fmt.Errorf("create_backend_task_definition: %w", err)
	}

	tmpl, err := s.describeTemplate(ctx, s.cfg.BackendTemplate)
	if err != nil {
		return nil, fmt.Errorf("create_backend_task_definition: %w", err)
	}

	containers := make([]ecstypes.ContainerDefinition, len(tmpl.ContainerDefinitions))
	for i, c := range tmpl.ContainerDefinitions {
		c.Name = aws.String(s.backendContainerName(subdomain))
		c.Image = aws.String(s.cfg.BackendImage)
		c.PortMappings = []ecstypes.PortMapping{{
			ContainerPort: aws.Int32(int32(s.cfg.BackendPort)),
			HostPort:      aws.Int32(int32(s.cfg.BackendPort)),
			Protocol:      ecstypes.TransportProtocolTcp,
		}}
		// テンプレート側のポートとプロファイル指定をテナント用の値で置き換えます
		c.Environment = overrideEnv(c.Environment,
			[]string{"SERVER_PORT", "SPRING_PROFILES_ACTIVE"},
			map[string]string{
				"DB_NAME":                subdomain,
				"SPRING_PROFILES_ACTIVE": s.cfg.BackendProfile,
			})
		c.LogConfiguration = overrideLogGroup(c.LogConfiguration, logGroup)
		containers[i] = c
	}

	arn, err := s.registerTaskDefinition(ctx, tmpl, fmt.Sprintf("%s-%s-backend", s.cfg.ResourcePrefix, subdomain), containers)
	if err != nil {
		return nil, fmt.Errorf("create_backend_task_definition: %w", err)
	}

	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusBackendTaskDefCreated, map[string]string{
		"backend_task_definition_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.TaskDefinitionResult{TenantID: tenantID, Subdomain: subdomain, BackendTaskDefinitionArn: arn}, nil
}

func (s *provisioningService) createFrontendTaskDefinition(ctx context.Context, tenantID, subdomain string) (*model.TaskDefinitionResult, error) {
	logGroup := s.frontendLogGroup(subdomain)
	if err := s.ensureLogGroup(ctx, logGroup); err != nil {
		return nil, fmt.Errorf("create_frontend_task_definition: %w", err)
	}

	tmpl, err := s.describeTemplate(ctx, s.cfg.FrontendTemplate)
	if err != nil {
		return nil, fmt.Errorf("create_frontend_task_definition: %w", err)
	}

	apiURL := fmt.Sprintf("https://%s.%s%s/", subdomain, s.cfg.DomainName, s.cfg.APIPathPrefix)
	containers := make([]ecstypes.ContainerDefinition, len(tmpl.ContainerDefinitions))
	for i, c := range tmpl.ContainerDefinitions {
		c.Environment = overrideEnv(c.Environment, []string{"API_URL"}, map[string]string{"API_URL": apiURL})
		c.LogConfiguration = overrideLogGroup(c.LogConfiguration, logGroup)
		containers[i] = c
	}

	arn, err := s.registerTaskDefinition(ctx, tmpl, fmt.Sprintf("%s-%s-frontend", s.cfg.ResourcePrefix, subdomain), containers)
	if err != nil {
		return nil, fmt.Errorf("create_frontend_task_definition: %w", err)
	}

	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusFrontendTaskDefCreated, map[string]string{
		"frontend_task_definition_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.TaskDefinitionResult{TenantID: tenantID, Subdomain: subdomain, FrontendTaskDefinitionArn: arn}, nil
}

func (s *provisioningService) describeTemplate(ctx context.Context, taskDef string) (*ecstypes.TaskDefinition, error) {
	out, err := s.ecs.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: aws.String(taskDef),
	})
	if err != nil {
		return nil, fmt.Errorf("describe template task definition %s: %w", taskDef, err)
	}
	return out.TaskDefinition, nil
}

func (s *provisioningService) registerTaskDefinition(ctx context.Context, tmpl *ecstypes.TaskDefinition, family string, containers []ecstypes.ContainerDefinition) (string, error) {
	out, err := s.ecs.RegisterTaskDefinition(ctx, &ecs.RegisterTaskDefinitionInput{
		Family:                  aws.String(family),
		NetworkMode:             tmpl.NetworkMode,
		RequiresCompatibilities: tmpl.RequiresCompatibilities,
		Cpu:                     tmpl.Cpu,
		Memory:                  tmpl.Memory,
		ExecutionRoleArn:        tmpl.ExecutionRoleArn,
		TaskRoleArn:             tmpl.TaskRoleArn,
		ContainerDefinitions:    containers,
	})
	if err != nil {
		return "", fmt.Errorf("register task definition %s: %w", family, err)
	}
	return aws.ToString(out.TaskDefinition.TaskDefinitionArn), nil
}

// overrideEnv は remove に挙げた変数を取り除き、set の変数を追加します。
func overrideEnv(env []ecstypes.KeyValuePair, remove []string, set map[string]string) []ecstypes.KeyValuePair {
	removed := make(map[string]bool, len(remove)+len(set))
	for _, name := range remove {
		removed[name] = true
	}
	for name := range set {
		removed[name] = true
	}

	result := make([]ecstypes.KeyValuePair, 0, len(env)+len(set))
	for _, kv := range env {
		if !removed[aws.ToString(kv.Name)] {
			result = append(result, kv)
		}
	}
	for _, name := range sortedKeys(set) {
		result = append(result, ecstypes.KeyValuePair{
			Name:  aws.String(name),
			Value: aws.String(set[name]),
		})
	}
	return result
}

func overrideLogGroup(lc *ecstypes.LogConfiguration, logGroup string) *ecstypes.LogConfiguration {
	if lc == nil {
		lc = &ecstypes.LogConfiguration{LogDriver: ecstypes.LogDriverAwslogs}
	}
	options := make(map[string]string, len(lc.Options)+1)
	for k, v := range lc.Options {
		options[k] = v
	}
	options["awslogs-group"] = logGroup
	return &ecstypes.LogConfiguration{
		LogDriver:     lc.LogDriver,
		Options:       options,
		SecretOptions: lc.SecretOptions,
	}
}

// --- target groups ---

func (s *provisioningService) createBackendTargetGroup(ctx context.Context, tenantID, subdomain string) (*model.TargetGroupResult, error) {
	out, err := s.elb.CreateTargetGroup(ctx, &elasticloadbalancingv2.CreateTargetGroupInput{
		Name:                       aws.String(fmt.Sprintf("%s-be-tg", subdomain)),
		Protocol:                   elbtypes.ProtocolEnumHttp,
		Port:                       aws.Int32(int32(s.cfg.BackendPort)),
		VpcId:                      aws.String(s.cfg.VpcID),
		TargetType:                 elbtypes.TargetTypeEnumIp,
		HealthCheckProtocol:        elbtypes.ProtocolEnumHttp,
		HealthCheckPath:            aws.String("/"),
		HealthCheckIntervalSeconds: aws.Int32(30),
		HealthCheckTimeoutSeconds:  aws.Int32(10),
		HealthyThresholdCount:      aws.Int32(2),
		// 起動に時間がかかるため閾値を緩めています
		UnhealthyThresholdCount: aws.Int32(10),
		Matcher:                 &elbtypes.Matcher{HttpCode: aws.String("200,404")},
	})
	if err != nil {
		return nil, fmt.Errorf("create_backend_target_group: %w", err)
	}

	arn := aws.ToString(out.TargetGroups[0].TargetGroupArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusBackendTGCreated, map[string]string{
		"backend_target_group_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.TargetGroupResult{TenantID: tenantID, Subdomain: subdomain, BackendTargetGroupArn: arn}, nil
}

func (s *provisioningService) createFrontendTargetGroup(ctx context.Context, tenantID, subdomain string) (*model.TargetGroupResult, error) {
	out, err := s.elb.CreateTargetGroup(ctx, &elasticloadbalancingv2.CreateTargetGroupInput{
		Name:                       aws.String(fmt.Sprintf("%s-fe-tg", subdomain)),
		Protocol:                   elbtypes.ProtocolEnumHttp,
		Port:                       aws.Int32(int32(s.cfg.FrontendPort)),
		VpcId:                      aws.String(s.cfg.VpcID),
		TargetType:                 elbtypes.TargetTypeEnumIp,
		HealthCheckProtocol:        elbtypes.ProtocolEnumHttp,
		HealthCheckPath:            aws.String("/"),
		HealthCheckIntervalSeconds: aws.Int32(30),
		HealthCheckTimeoutSeconds:  aws.Int32(5),
		HealthyThresholdCount:      aws.Int32(2),
		UnhealthyThresholdCount:    aws.Int32(2),
		Matcher:                    &elbtypes.Matcher{HttpCode: aws.String("200")},
	})
	if err != nil {
		return nil, fmt.Errorf("create_frontend_target_group: %w", err)
	}

	arn := aws.ToString(out.TargetGroups[0].TargetGroupArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusFrontendTGCreated, map[string]string{
		"frontend_target_group_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.TargetGroupResult{TenantID: tenantID, Subdomain: subdomain, FrontendTargetGroupArn: arn}, nil
}

// --- ALB rules ---

// findHTTPSListener は共有ALBの443リスナーを探します。
func (s *provisioningService) findHTTPSListener(ctx context.Context) (string, error) {
	out, err := s.elb.DescribeListeners(ctx, &elasticloadbalancingv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(s.cfg.ALBArn),
	})
	if err != nil {
		return "", fmt.Errorf("describe listeners: %w", err)
	}
	for _, l := range out.Listeners {
		if aws.ToInt32(l.Port) == 443 {
			return aws.ToString(l.ListenerArn), nil
		}
	}
	return "", fmt.Errorf("HTTPS listener (443) not found on load balancer: %w", model.ErrPrecondition)
}

func (s *provisioningService) createBackendALBRule(ctx context.Context, tenantID, subdomain string) (*model.ALBRuleResult, error) {
	listenerArn, err := s.findHTTPSListener(ctx)
	if err != nil {
		return nil, fmt.Errorf("create_backend_alb_rule: %w", err)
	}

	tenant, err := s.registry.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("create_backend_alb_rule: %w", err)
	}
	if tenant.BackendTargetGroupArn == "" {
		return nil, fmt.Errorf("create_backend_alb_rule: backend target group not created yet: %w", model.ErrPrecondition)
	}

	out, err := s.elb.CreateRule(ctx, &elasticloadbalancingv2.CreateRuleInput{
		ListenerArn: aws.String(listenerArn),
		// 他テナントのルールとの衝突回避はリトライに任せ、優先度はランダムに選びます (1000-49999)
		Priority: aws.Int32(int32(rand.IntN(49000) + 1000)),
		Conditions: []elbtypes.RuleCondition{
			{
				Field:  aws.String("host-header"),
				Values: []string{s.tenantHost(subdomain)},
			},
			{
				Field:  aws.String("path-pattern"),
				Values: []string{s.cfg.APIPathPrefix + "/*"},
			},
		},
		Actions: []elbtypes.Action{
			{
				Type:           elbtypes.ActionTypeEnumForward,
				TargetGroupArn: aws.String(tenant.BackendTargetGroupArn),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create_backend_alb_rule: %w", err)
	}

	arn := aws.ToString(out.Rules[0].RuleArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusBackendALBConfigured, map[string]string{
		"backend_rule_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.ALBRuleResult{TenantID: tenantID, Subdomain: subdomain, BackendRuleArn: arn}, nil
}

func (s *provisioningService) createFrontendALBRule(ctx context.Context, tenantID, subdomain string) (*model.ALBRuleResult, error) {
	listenerArn, err := s.findHTTPSListener(ctx)
	if err != nil {
		return nil, fmt.Errorf("create_frontend_alb_rule: %w", err)
	}

	tenant, err := s.registry.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("create_frontend_alb_rule: %w", err)
	}
	if tenant.FrontendTargetGroupArn == "" {
		return nil, fmt.Errorf("create_frontend_alb_rule: frontend target group not created yet: %w", model.ErrPrecondition)
	}

	out, err := s.elb.CreateRule(ctx, &elasticloadbalancingv2.CreateRuleInput{
		ListenerArn: aws.String(listenerArn),
		// バックエンドのパスルールより必ず後に評価されるよう範囲を後ろへずらします (2000-49999)
		Priority: aws.Int32(int32(rand.IntN(48000) + 2000)),
		Conditions: []elbtypes.RuleCondition{
			// path-pattern を付けないため、残りの全パスがフロントエンドに流れます
			{
				Field:  aws.String("host-header"),
				Values: []string{s.tenantHost(subdomain)},
			},
		},
		Actions: []elbtypes.Action{
			{
				Type:           elbtypes.ActionTypeEnumForward,
				TargetGroupArn: aws.String(tenant.FrontendTargetGroupArn),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create_frontend_alb_rule: %w", err)
	}

	arn := aws.ToString(out.Rules[0].RuleArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusFrontendALBConfigured, map[string]string{
		"frontend_rule_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.ALBRuleResult{TenantID: tenantID, Subdomain: subdomain, FrontendRuleArn: arn}, nil
}

// --- service deployment ---

func (s *provisioningService) deployBackendService(ctx context.Context, tenantID, subdomain string) (*model.DeployResult, error) {
	logger := middleware.GetLogger(ctx)

	tenant, err := s.registry.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("deploy_backend: %w", err)
	}
	if tenant.BackendTaskDefinitionArn == "" || tenant.BackendTargetGroupArn == "" {
		return nil, fmt.Errorf("deploy_backend: task definition or target group not created yet: %w", model.ErrPrecondition)
	}

	serviceName := fmt.Sprintf("%s-%s-backend", s.cfg.ResourcePrefix, subdomain)

	// 再実行時: 既にACTIVEなサービスがあればそのまま採用します
	if arn, ok := s.findActiveService(ctx, serviceName); ok {
		if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusBackendDeploying, map[string]string{
			"backend_service_arn": arn,
		}); err != nil {
			return nil, err
		}
		return &model.DeployResult{TenantID: tenantID, Subdomain: subdomain, BackendServiceArn: arn}, nil
	}

	out, err := s.ecs.CreateService(ctx, &ecs.CreateServiceInput{
		ServiceName:                   aws.String(serviceName),
		Cluster:                       aws.String(s.cfg.ClusterName),
		TaskDefinition:                aws.String(tenant.BackendTaskDefinitionArn),
		DesiredCount:                  aws.Int32(1),
		LaunchType:                    ecstypes.LaunchTypeFargate,
		HealthCheckGracePeriodSeconds: aws.Int32(300),
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        s.cfg.PrivateSubnetIDs,
				SecurityGroups: s.cfg.SecurityGroupIDs,
				AssignPublicIp: ecstypes.AssignPublicIpDisabled,
			},
		},
		LoadBalancers: []ecstypes.LoadBalancer{
			{
				TargetGroupArn: aws.String(tenant.BackendTargetGroupArn),
				ContainerName:  aws.String(s.backendContainerName(subdomain)),
				ContainerPort:  aws.Int32(int32(s.cfg.BackendPort)),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("deploy_backend: create service: %w", err)
	}

	serviceArn := aws.ToString(out.Service.ServiceArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusBackendDeploying, map[string]string{
		"backend_service_arn": serviceArn,
	}); err != nil {
		return nil, err
	}

	// タスクが立ち上がるまでベストエフォートで待ちます。
	// タイムアウトしてもステップは失敗させません (起動確認はステータスチェッカーの役割です)。
	running, err := waitFor(ctx, s.cfg.DeployTimeout, s.cfg.DeployPollInterval, func(ctx context.Context) (bool, error) {
		return s.isServiceRunning(ctx, serviceName)
	})
	switch {
	case err != nil:
		logger.Warn("Stopped waiting for backend service", "service", serviceName, "error", err)
	case !running:
		logger.Warn("Backend service did not become healthy within the wait window", "service", serviceName)
	default:
		logger.Info("Backend service is running", "service", serviceName)
	}

	return &model.DeployResult{TenantID: tenantID, Subdomain: subdomain, BackendServiceArn: serviceArn}, nil
}

func (s *provisioningService) deployFrontendService(ctx context.Context, tenantID, subdomain string) (*model.DeployResult, error) {
	tenant, err := s.registry.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("deploy_frontend: %w", err)
	}
	if tenant.FrontendTaskDefinitionArn == "" || tenant.FrontendTargetGroupArn == "" {
		return nil, fmt.Errorf("deploy_frontend: task definition or target group not created yet: %w", model.ErrPrecondition)
	}

	serviceName := fmt.Sprintf("%s-%s-frontend", s.cfg.ResourcePrefix, subdomain)

	if arn, ok := s.findActiveService(ctx, serviceName); ok {
		if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusFrontendDeploying, map[string]string{
			"frontend_service_arn": arn,
		}); err != nil {
			return nil, err
		}
		return &model.DeployResult{TenantID: tenantID, Subdomain: subdomain, FrontendServiceArn: arn}, nil
	}

	out, err := s.ecs.CreateService(ctx, &ecs.CreateServiceInput{
		ServiceName:    aws.String(serviceName),
		Cluster:        aws.String(s.cfg.ClusterName),
		TaskDefinition: aws.String(tenant.FrontendTaskDefinitionArn),
		DesiredCount:   aws.Int32(1),
		LaunchType:     ecstypes.LaunchTypeFargate,
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        s.cfg.PrivateSubnetIDs,
				SecurityGroups: s.cfg.SecurityGroupIDs,
				AssignPublicIp: ecstypes.AssignPublicIpDisabled,
			},
		},
		LoadBalancers: []ecstypes.LoadBalancer{
			{
				TargetGroupArn: aws.String(tenant.FrontendTargetGroupArn),
				ContainerName:  aws.String(s.cfg.FrontendContainer),
				ContainerPort:  aws.Int32(int32(s.cfg.FrontendPort)),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("deploy_frontend: create service: %w", err)
	}

	serviceArn := aws.ToString(out.Service.ServiceArn)
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusFrontendDeploying, map[string]string{
		"frontend_service_arn": serviceArn,
	}); err != nil {
		return nil, err
	}
	return &model.DeployResult{TenantID: tenantID, Subdomain: subdomain, FrontendServiceArn: serviceArn}, nil
}

// findActiveService は既存のACTIVEなサービスを探します。
// 見つからない場合やAPIエラーの場合は新規作成に進みます。
func (s *provisioningService) findActiveService(ctx context.Context, serviceName string) (string, bool) {
	out, err := s.ecs.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(s.cfg.ClusterName),
		Services: []string{serviceName},
	})
	if err != nil || len(out.Services) == 0 {
		return "", false
	}
	svc := out.Services[0]
	if aws.ToString(svc.Status) != "ACTIVE" {
		return "", false
	}
	return aws.ToString(svc.ServiceArn), true
}

// isServiceRunning はタスクが起動しPRIMARYデプロイメントが走っているかを確認します。
func (s *provisioningService) isServiceRunning(ctx context.Context, serviceName string) (bool, error) {
	out, err := s.ecs.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(s.cfg.ClusterName),
		Services: []string{serviceName},
	})
	if err != nil {
		return false, err
	}
	if len(out.Services) == 0 {
		return false, nil
	}
	svc := out.Services[0]
	if svc.RunningCount == 0 {
		return false, nil
	}
	for _, d := range svc.Deployments {
		if aws.ToString(d.Status) == "PRIMARY" && d.RunningCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

// --- DNS / certificate / finalize ---

func (s *provisioningService) createDNSRecord(ctx context.Context, tenantID, subdomain string) (*model.DNSResult, error) {
	out, err := s.dns.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(s.cfg.HostedZoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: []r53types.Change{
				{
					Action: r53types.ChangeActionUpsert,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name: aws.String(s.tenantHost(subdomain)),
						Type: r53types.RRTypeA,
						AliasTarget: &r53types.AliasTarget{
							DNSName:              aws.String(s.cfg.ALBDNSName),
							EvaluateTargetHealth: false,
							HostedZoneId:         aws.String(s.cfg.ALBHostedZoneID),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create_dns: %w", err)
	}

	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusDNSConfigured, nil); err != nil {
		return nil, err
	}
	return &model.DNSResult{
		TenantID:  tenantID,
		Subdomain: subdomain,
		ChangeID:  aws.ToString(out.ChangeInfo.Id),
	}, nil
}

func (s *provisioningService) createCertificate(ctx context.Context, tenantID, subdomain string) (*model.CertificateResult, error) {
	domainName := s.tenantHost(subdomain)

	out, err := s.acm.RequestCertificate(ctx, &acm.RequestCertificateInput{
		DomainName:              aws.String(domainName),
		ValidationMethod:        acmtypes.ValidationMethodDns,
		SubjectAlternativeNames: []string{"*." + domainName},
	})
	if err != nil {
		return nil, fmt.Errorf("create_certificate: %w", err)
	}

	arn := aws.ToString(out.CertificateArn)
	// DNS検証の完了はここでは待ちません
	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusCertificateRequested, map[string]string{
		"certificate_arn": arn,
	}); err != nil {
		return nil, err
	}
	return &model.CertificateResult{
		TenantID:       tenantID,
		Subdomain:      subdomain,
		CertificateArn: arn,
		DomainName:     domainName,
	}, nil
}

func (s *provisioningService) finalize(ctx context.Context, tenantID, subdomain string) (*model.FinalizeResult, error) {
	url := fmt.Sprintf("https://%s", s.tenantHost(subdomain))
	apiURL := url + s.cfg.APIPathPrefix

	if err := s.registry.UpdateStatus(ctx, tenantID, model.StatusActive, map[string]string{
		"url":          url,
		"api_url":      apiURL,
		"activated_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	return &model.FinalizeResult{
		TenantID:  tenantID,
		Subdomain: subdomain,
		Status:    model.StatusActive,
		URL:       url,
	}, nil
}

// --- naming helpers ---

func (s *provisioningService) tenantHost(subdomain string) string {
	return fmt.Sprintf("%s.%s", subdomain, s.cfg.DomainName)
}

func (s *provisioningService) backendLogGroup(subdomain string) string {
	return fmt.Sprintf("/ecs/%s-%s-backend", s.cfg.ResourcePrefix, subdomain)
}

func (s *provisioningService) frontendLogGroup(subdomain string) string {
	return fmt.Sprintf("/ecs/%s-%s-frontend", s.cfg.ResourcePrefix, subdomain)
}

func (s *provisioningService) backendContainerName(subdomain string) string {
	return fmt.Sprintf("%s-%s-api", subdomain, s.cfg.ResourcePrefix)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
