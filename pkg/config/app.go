package config

var AppVersion = "DEVELOPMENT"

const (
	AppName        = "reconcile"
	LogFile        = "reconcile.log"
	CfgFile        = "config.toml"
	RegistryDbFile = "registry.db"
	MappingsDir    = "etl_mappings"
	LogsDir        = "logs"
)
