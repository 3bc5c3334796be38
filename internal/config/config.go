// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// AWSConfig はAWSクライアント生成に使う認証設定です。
// auth_type は "iam_role" (既定) または "static_credentials" を指定します。
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// SESConfig はウェルカムメール送信の設定です。
type SESConfig struct {
	From string `mapstructure:"from"`
}

// MailerConfig はメール送信方式の選択です ("ses" または "log")。
type MailerConfig struct {
	Type string `mapstructure:"type"`
}

// DatabaseConfig は管理用Postgres接続の設定です。
// パスワードは secret_id が設定されていれば Secrets Manager から解決します。
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	AdminDB  string `mapstructure:"admin_db"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SecretID string `mapstructure:"secret_id"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ProvisioningConfig はテナントごとのインフラ生成に使う共有リソースの設定です。
type ProvisioningConfig struct {
	TenantsTable     string   `mapstructure:"tenants_table"`
	ClusterName      string   `mapstructure:"cluster_name"`
	VpcID            string   `mapstructure:"vpc_id"`
	ALBArn           string   `mapstructure:"alb_arn"`
	ALBDNSName       string   `mapstructure:"alb_dns_name"`
	ALBHostedZoneID  string   `mapstructure:"alb_hosted_zone_id"`
	HostedZoneID     string   `mapstructure:"hosted_zone_id"`
	DomainName       string   `mapstructure:"domain_name"`
	PrivateSubnetIDs []string `mapstructure:"private_subnet_ids"`
	SecurityGroupIDs []string `mapstructure:"security_group_ids"`

	ResourcePrefix    string `mapstructure:"resource_prefix"`
	BackendTemplate   string `mapstructure:"backend_template_task_def"`
	FrontendTemplate  string `mapstructure:"frontend_template_task_def"`
	BackendImage      string `mapstructure:"backend_image"`
	BackendProfile    string `mapstructure:"backend_profile"`
	BackendPort       int    `mapstructure:"backend_port"`
	FrontendPort      int    `mapstructure:"frontend_port"`
	APIPathPrefix     string `mapstructure:"api_path_prefix"`
	StartupMarker     string `mapstructure:"startup_marker"`
	FrontendContainer string `mapstructure:"frontend_container"`

	DeployTimeout      time.Duration `mapstructure:"deploy_timeout"`
	DeployPollInterval time.Duration `mapstructure:"deploy_poll_interval"`
}

// CognitoConfig はIDプロバイダ (ユーザープール) の設定です。
type CognitoConfig struct {
	UserPoolID string `mapstructure:"user_pool_id"`
}

// LDAPConfig は代替登録フローで使うディレクトリサービスの設定です。
type LDAPConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	BindDN       string `mapstructure:"bind_dn"`
	BindPassword string `mapstructure:"bind_password"`
	UserBaseDN   string `mapstructure:"user_base_dn"`
}

// RegistrationConfig は登録フローの設定です。
// instance_url は登録直後に案内する共用インスタンスのURLです。
type RegistrationConfig struct {
	TrialDays   int    `mapstructure:"trial_days"`
	InstanceURL string `mapstructure:"instance_url"`
}

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"jwt"`

	AWS          AWSConfig          `mapstructure:"aws"`
	SES          SESConfig          `mapstructure:"ses"`
	Mailer       MailerConfig       `mapstructure:"mailer"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Provisioning ProvisioningConfig `mapstructure:"provisioning"`
	Cognito      CognitoConfig      `mapstructure:"cognito"`
	LDAP         LDAPConfig         `mapstructure:"ldap"`
	Registration RegistrationConfig `mapstructure:"registration"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	// 機微な値は環境変数からの上書きを明示的に許可する
	viper.BindEnv("aws.access_key_id", "AWS_ACCESS_KEY_ID")
	viper.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("ldap.bind_password", "LDAP_BIND_PASSWORD")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.AWS.Region == "" {
		Cfg.AWS.Region = DefaultAWSRegion
	}
	if Cfg.Database.Port == 0 {
		Cfg.Database.Port = 5432
	}
	if Cfg.Database.AdminDB == "" {
		Cfg.Database.AdminDB = "postgres"
	}
	if Cfg.Database.SSLMode == "" {
		Cfg.Database.SSLMode = "require"
	}
	if Cfg.Provisioning.BackendPort == 0 {
		Cfg.Provisioning.BackendPort = DefaultBackendPort
	}
	if Cfg.Provisioning.FrontendPort == 0 {
		Cfg.Provisioning.FrontendPort = DefaultFrontendPort
	}
	if Cfg.Provisioning.DeployTimeout <= 0 {
		Cfg.Provisioning.DeployTimeout = DefaultDeployTimeout
	}
	if Cfg.Provisioning.DeployPollInterval <= 0 {
		Cfg.Provisioning.DeployPollInterval = DefaultDeployPollInterval
	}
	if Cfg.Provisioning.StartupMarker == "" {
		Cfg.Provisioning.StartupMarker = DefaultStartupMarker
	}
	if Cfg.Registration.TrialDays <= 0 {
		Cfg.Registration.TrialDays = DefaultTrialDays
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("AWS Region: %s", Cfg.AWS.Region)
	log.Printf("Tenants Table: %s", Cfg.Provisioning.TenantsTable)

	return nil
}
