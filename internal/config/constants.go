// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "saas-provisioner"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort = ":8080"
	DefaultLogLevel   = "info"
	DefaultAWSRegion  = "us-east-1"

	DefaultBackendPort  = 8081
	DefaultFrontendPort = 80

	DefaultDeployTimeout      = 10 * time.Minute
	DefaultDeployPollInterval = 30 * time.Second

	DefaultTrialDays = 14
)

// バックエンド起動完了をログから判定するための既定マーカー
const DefaultStartupMarker = "Tomcat started on port(s): 8081 (http)"
