package model

import "fmt"

// Action はプロビジョニングのステップ種別です。
// 文字列ディスパッチではなく閉じた集合として扱い、追加や改名をコンパイル時に検知できるようにします。
type Action string

const (
	ActionValidate              Action = "validate"
	ActionCreateSchema          Action = "create_schema"
	ActionCreateBackendTaskDef  Action = "create_backend_task_definition"
	ActionCreateFrontendTaskDef Action = "create_frontend_task_definition"
	ActionCreateBackendTG       Action = "create_backend_target_group"
	ActionCreateFrontendTG      Action = "create_frontend_target_group"
	ActionCreateBackendALBRule  Action = "create_backend_alb_rule"
	ActionCreateFrontendALBRule Action = "create_frontend_alb_rule"
	ActionDeployBackend         Action = "deploy_backend"
	ActionDeployFrontend        Action = "deploy_frontend"
	ActionCreateDNS             Action = "create_dns"
	ActionCreateCertificate     Action = "create_certificate"
	ActionFinalize              Action = "finalize"
	ActionListSchemas           Action = "list_schemas"
)

// ParseAction は文字列を Action に変換します。未知の値はエラーになります。
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionValidate, ActionCreateSchema,
		ActionCreateBackendTaskDef, ActionCreateFrontendTaskDef,
		ActionCreateBackendTG, ActionCreateFrontendTG,
		ActionCreateBackendALBRule, ActionCreateFrontendALBRule,
		ActionDeployBackend, ActionDeployFrontend,
		ActionCreateDNS, ActionCreateCertificate,
		ActionFinalize, ActionListSchemas:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action: %s: %w", s, ErrInvalidInput)
	}
}

// ValidateInput は validate ステップへの入力です。
// 歴史的に2通りのフィールド名が混在しているため、両方を受けて正規化します。
type ValidateInput struct {
	Subdomain   string `json:"subdomain"`
	TenantIDAlt string `json:"tenantId"`
	CompanyName string `json:"company_name"`
	CompanyAlt  string `json:"companyName"`
	AdminEmail  string `json:"admin_email"`
	EmailAlt    string `json:"adminEmail"`
	Plan        string `json:"plan"`
}

// Normalize はエイリアスを解決し、正規の入力表現を返します。
// 内部の型にはエイリアスを持ち込みません。
func (in ValidateInput) Normalize() SignupRequest {
	req := SignupRequest{
		Subdomain:   in.Subdomain,
		CompanyName: in.CompanyName,
		AdminEmail:  in.AdminEmail,
		Plan:        in.Plan,
	}
	if req.Subdomain == "" {
		req.Subdomain = in.TenantIDAlt
	}
	if req.CompanyName == "" {
		req.CompanyName = in.CompanyAlt
	}
	if req.AdminEmail == "" {
		req.AdminEmail = in.EmailAlt
	}
	return req
}

// SignupRequest は正規化済みのサインアップ内容です。
type SignupRequest struct {
	Subdomain   string
	CompanyName string
	AdminEmail  string
	Plan        string
}

// ProvisionRequest はオーケストレータへの1ステップ分の呼び出しです。
// ステップの実行順序は呼び出し元 (上位のステートマシン) が制御します。
type ProvisionRequest struct {
	Action    string        `json:"action"`
	TenantID  string        `json:"tenant_id,omitempty"`
	Subdomain string        `json:"subdomain,omitempty"`
	Input     ValidateInput `json:"input,omitempty"`
}

// --- ステップごとのレスポンス ---

type ValidateResult struct {
	TenantID    string `json:"tenant_id"`
	Subdomain   string `json:"subdomain"`
	Plan        string `json:"plan"`
	AdminEmail  string `json:"admin_email"`
	CompanyName string `json:"company_name"`
	Status      Status `json:"status"`
}

type SchemaResult struct {
	TenantID  string `json:"tenant_id"`
	Subdomain string `json:"subdomain"`
	Status    Status `json:"status"`
}

type TaskDefinitionResult struct {
	TenantID                  string `json:"tenant_id"`
	Subdomain                 string `json:"subdomain"`
	BackendTaskDefinitionArn  string `json:"backend_task_definition_arn,omitempty"`
	FrontendTaskDefinitionArn string `json:"frontend_task_definition_arn,omitempty"`
}

type TargetGroupResult struct {
	TenantID               string `json:"tenant_id"`
	Subdomain              string `json:"subdomain"`
	BackendTargetGroupArn  string `json:"backend_target_group_arn,omitempty"`
	FrontendTargetGroupArn string `json:"frontend_target_group_arn,omitempty"`
}

type ALBRuleResult struct {
	TenantID        string `json:"tenant_id"`
	Subdomain       string `json:"subdomain"`
	BackendRuleArn  string `json:"backend_rule_arn,omitempty"`
	FrontendRuleArn string `json:"frontend_rule_arn,omitempty"`
}

type DeployResult struct {
	TenantID           string `json:"tenant_id"`
	Subdomain          string `json:"subdomain"`
	BackendServiceArn  string `json:"backend_service_arn,omitempty"`
	FrontendServiceArn string `json:"frontend_service_arn,omitempty"`
}

type DNSResult struct {
	TenantID  string `json:"tenant_id"`
	Subdomain string `json:"subdomain"`
	ChangeID  string `json:"change_id"`
}

type CertificateResult struct {
	TenantID       string `json:"tenant_id"`
	Subdomain      string `json:"subdomain"`
	CertificateArn string `json:"certificate_arn"`
	DomainName     string `json:"domain_name"`
}

type FinalizeResult struct {
	TenantID  string `json:"tenant_id"`
	Subdomain string `json:"subdomain"`
	Status    Status `json:"status"`
	URL       string `json:"url"`
}

// ListSchemasResult は診断用の read-only レスポンスです。
// エラーもこの形で返し、テナント状態には影響させません。
type ListSchemasResult struct {
	Status  string   `json:"status"`
	Schemas []string `json:"schemas,omitempty"`
	Count   int      `json:"count"`
	Error   string   `json:"error,omitempty"`
}

// --- ステータスチェック ---

// CheckType はステータスチェックの種別です。
type CheckType string

const (
	CheckBackend     CheckType = "backend"
	CheckBackendLogs CheckType = "backend_logs"
	CheckFrontend    CheckType = "frontend"
)

type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

// StatusCheckRequest はステータスチェッカーへのリクエストです。
type StatusCheckRequest struct {
	TenantID  string `json:"tenant_id"`
	CheckType string `json:"check_type"`
	Subdomain string `json:"subdomain,omitempty"`
}

// HealthResult はステータスチェックの結果です。呼び出し元にエラーは返しません。
type HealthResult struct {
	TenantID string       `json:"tenant_id"`
	Status   HealthStatus `json:"status"`
	Reason   string       `json:"reason,omitempty"`
	Message  string       `json:"message,omitempty"`
}
