package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	Enable   bool   `yaml:"enable" json:"enable"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

func (c *AppConfig) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		c.Database.Host, c.Database.User, c.Database.Passwd, c.Database.Name, c.Database.Port, c.System.Location)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "marketd",
		Location: "Asia/Shanghai",
		Workdir:  "/var/marketd",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-marketd-0f65-secret",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "marketd",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/marketd/marketd.log",
	},
	Smtp: SmtpConfig{
		Host: "smtp.example.org",
		Port: 587,
		From: "no-reply@example.org",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*val = i
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig reads the YAML config file and applies MARKETD_* environment
// overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("MARKETD_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("MARKETD_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("MARKETD_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("MARKETD_WEB_HOST", &cfg.Web.Host)
	setEnvValue("MARKETD_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("MARKETD_WEB_PORT", &cfg.Web.Port)

	setEnvValue("MARKETD_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("MARKETD_DB_PORT", &cfg.Database.Port)
	setEnvValue("MARKETD_DB_NAME", &cfg.Database.Name)
	setEnvValue("MARKETD_DB_USER", &cfg.Database.User)
	setEnvValue("MARKETD_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("MARKETD_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("MARKETD_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("MARKETD_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("MARKETD_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("MARKETD_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("MARKETD_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("MARKETD_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("MARKETD_SMTP_FROM", &cfg.Smtp.From)
	setEnvBoolValue("MARKETD_SMTP_ENABLE", &cfg.Smtp.Enable)

	return cfg
}
