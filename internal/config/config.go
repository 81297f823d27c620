package config

import (
	"strings"
	"time"
)

// Config é a configuração raiz do serviço.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	CRM      CRMConfig      `yaml:"crm"`
	Mail     MailConfig     `yaml:"mail"`
	Sync     SyncConfig     `yaml:"sync"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
	Version         string        `yaml:"version"          env:"APP_VERSION"             env-default:"dev"`
}

// DatabaseConfig: o estado do sync fica em DATABASE_URL; o PMS pode morar em outro banco.
type DatabaseConfig struct {
	URL    string `yaml:"url"     env:"DATABASE_URL"     env-required:"true"`
	PMSURL string `yaml:"pms_url" env:"PMS_DATABASE_URL"`
}

// PMS devolve o DSN do PMS, caindo para o banco de estado.
func (d DatabaseConfig) PMS() string {
	if d.PMSURL != "" {
		return d.PMSURL
	}
	return d.URL
}

type RabbitMQConfig struct {
	User     string `yaml:"user"     env:"RABBITMQ_USER"     env-default:"guest"`
	Password string `yaml:"password" env:"RABBITMQ_PASSWORD" env-default:"guest"`
	Host     string `yaml:"host"     env:"RABBITMQ_HOST"     env-default:"localhost"`
	Port     string `yaml:"port"     env:"RABBITMQ_PORT"     env-default:"5672"`
	Enabled  bool   `yaml:"enabled"  env:"RABBITMQ_ENABLED"  env-default:"true"`
}

type CRMConfig struct {
	BaseURL     string        `yaml:"base_url"    env:"KOMMO_BASE_URL"    env-required:"true"`
	Token       string        `yaml:"token"       env:"KOMMO_API_TOKEN"   env-required:"true"`
	PipelineID  int           `yaml:"pipeline_id" env:"KOMMO_PIPELINE_ID"`
	StatusID    int           `yaml:"status_id"   env:"KOMMO_STATUS_ID"`
	Concurrency int           `yaml:"concurrency" env:"KOMMO_CONCURRENCY" env-default:"8"`
	Timeout     time.Duration `yaml:"timeout"     env:"KOMMO_TIMEOUT"     env-default:"30s"`
}

type MailConfig struct {
	Host       string `yaml:"host"       env:"MAIL_HOST"`
	Port       int    `yaml:"port"       env:"MAIL_PORT"       env-default:"587"`
	User       string `yaml:"user"       env:"MAIL_USER"`
	Password   string `yaml:"password"   env:"MAIL_PASS"`
	From       string `yaml:"from"       env:"MAIL_FROM"       env-default:"nao-responda@guestsync.local"`
	Recipients string `yaml:"recipients" env:"MAIL_RECIPIENTS"`
}

// RecipientList separa MAIL_RECIPIENTS por vírgula.
func (m MailConfig) RecipientList() []string {
	return splitList(m.Recipients)
}

type SyncConfig struct {
	Interval          time.Duration `yaml:"interval"            env:"SYNC_INTERVAL"            env-default:"15m"`
	RunTimeout        time.Duration `yaml:"run_timeout"         env:"SYNC_RUN_TIMEOUT"         env-default:"10m"`
	IdentityBatchSize int           `yaml:"identity_batch_size" env:"SYNC_IDENTITY_BATCH_SIZE" env-default:"200"`
	StayBatchSize     int           `yaml:"stay_batch_size"     env:"SYNC_STAY_BATCH_SIZE"     env-default:"200"`
	ExtractBatchSize  int           `yaml:"extract_batch_size"  env:"SYNC_EXTRACT_BATCH_SIZE"  env-default:"50"`
	AgentRulesPath    string        `yaml:"agent_rules_path"    env:"AGENT_RULES_PATH"         env-default:"./config/agent_rules.yaml"`
	SchedulerEnabled  bool          `yaml:"scheduler_enabled"   env:"SYNC_SCHEDULER_ENABLED"   env-default:"true"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

func (c CORSConfig) Origins() []string {
	return splitList(c.AllowedOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
