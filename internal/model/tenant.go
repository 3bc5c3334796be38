package model

// Status はテナントのワークフロー状態です。
// 前方 (次のステップの状態) か failed にのみ遷移し、巻き戻されることはありません。
type Status string

const (
	StatusValidated              Status = "validated"
	StatusDatabaseReady          Status = "database_ready"
	StatusBackendTaskDefCreated  Status = "backend_task_definition_created"
	StatusFrontendTaskDefCreated Status = "frontend_task_definition_created"
	StatusBackendTGCreated       Status = "backend_target_group_created"
	StatusFrontendTGCreated      Status = "frontend_target_group_created"
	StatusBackendALBConfigured   Status = "backend_alb_configured"
	StatusFrontendALBConfigured  Status = "frontend_alb_configured"
	StatusBackendDeploying       Status = "backend_deploying"
	StatusFrontendDeploying      Status = "frontend_deploying"
	StatusDNSConfigured          Status = "dns_configured"
	StatusCertificateRequested   Status = "certificate_requested"
	StatusActive                 Status = "active"
	StatusFailed                 Status = "failed"
)

// Tenant はテナントレジストリに永続化される1テナント分のレコードです。
// 各リソース系フィールドは、それを生成するステップだけが書き込みます。
type Tenant struct {
	TenantID    string `json:"tenant_id" dynamodbav:"tenant_id"`
	Subdomain   string `json:"subdomain" dynamodbav:"subdomain"`
	CompanyName string `json:"company_name" dynamodbav:"company_name"`
	AdminEmail  string `json:"admin_email" dynamodbav:"admin_email"`
	Plan        string `json:"plan" dynamodbav:"plan"`
	Status      Status `json:"status" dynamodbav:"status"`

	BackendTaskDefinitionArn  string `json:"backend_task_definition_arn,omitempty" dynamodbav:"backend_task_definition_arn,omitempty"`
	FrontendTaskDefinitionArn string `json:"frontend_task_definition_arn,omitempty" dynamodbav:"frontend_task_definition_arn,omitempty"`
	BackendTargetGroupArn     string `json:"backend_target_group_arn,omitempty" dynamodbav:"backend_target_group_arn,omitempty"`
	FrontendTargetGroupArn    string `json:"frontend_target_group_arn,omitempty" dynamodbav:"frontend_target_group_arn,omitempty"`
	BackendRuleArn            string `json:"backend_rule_arn,omitempty" dynamodbav:"backend_rule_arn,omitempty"`
	FrontendRuleArn           string `json:"frontend_rule_arn,omitempty" dynamodbav:"frontend_rule_arn,omitempty"`
	BackendServiceArn         string `json:"backend_service_arn,omitempty" dynamodbav:"backend_service_arn,omitempty"`
	FrontendServiceArn        string `json:"frontend_service_arn,omitempty" dynamodbav:"frontend_service_arn,omitempty"`
	CertificateArn            string `json:"certificate_arn,omitempty" dynamodbav:"certificate_arn,omitempty"`
	URL                       string `json:"url,omitempty" dynamodbav:"url,omitempty"`
	APIURL                    string `json:"api_url,omitempty" dynamodbav:"api_url,omitempty"`

	Error string `json:"error,omitempty" dynamodbav:"error,omitempty"`

	CreatedAt   string `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   string `json:"updated_at" dynamodbav:"updated_at"`
	ActivatedAt string `json:"activated_at,omitempty" dynamodbav:"activated_at,omitempty"`
}

type ContextKey string

const (
	CallerIDKey ContextKey = "callerID"
)

// RegisterRequest は新規登録APIのリクエストボディの構造体 (DTO)
type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=100"`
	AdminEmail  string `json:"adminEmail" validate:"required,email"`
	AdminName   string `json:"adminName" validate:"required,min=1,max=100"`
	Plan        string `json:"plan" validate:"required,oneof=free-trial standard premium"`
}

// RegisterResponse は登録APIのレスポンスです。
// ディレクトリ連携の成否は握り潰さず DirectorySynced で通知します。
type RegisterResponse struct {
	Success         bool   `json:"success"`
	TenantID        string `json:"tenant_id"`
	InstanceURL     string `json:"instance_url"`
	AdminUsername   string `json:"admin_username"`
	DirectorySynced bool   `json:"directory_synced"`
	Message         string `json:"message"`
}

// TenantInfoResponse はダッシュボード向けのテナント情報です。
type TenantInfoResponse struct {
	TenantID    string `json:"tenant_id"`
	CompanyName string `json:"company_name"`
	Status      Status `json:"status"`
	Plan        string `json:"plan"`
	CreatedAt   string `json:"created_at"`
	InstanceURL string `json:"instance_url"`
}
