package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "CLINICDESK"
	ServiceName  = "clinicdesk_backend"
)
