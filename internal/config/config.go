package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Agents    AgentsConfig    `yaml:"agents"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type AuthConfig struct {
	// Token is the bearer token callers must present. Empty means the
	// gateway rejects every request until a token is configured.
	Token string `yaml:"token"`
}

type OpenAIConfig struct {
	// ChatCompletionsEnabled gates the /v1/chat/completions surface.
	// Disabled endpoints respond 404.
	ChatCompletionsEnabled bool `yaml:"chat_completions_enabled"`
}

type AgentsConfig struct {
	// Default is the agent used when neither header nor model select one.
	Default string `yaml:"default"`
	// BaseModel is the bare model name advertised on /v1/models; a model of
	// the form "<base>:<agentId>" addresses a specific agent.
	BaseModel string `yaml:"base_model"`
	// Known lists agent ids advertised on /v1/models.
	Known []string `yaml:"known"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     300 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		OpenAI: OpenAIConfig{
			ChatCompletionsEnabled: false,
		},
		Agents: AgentsConfig{
			Default:   "main",
			BaseModel: "clawdbot",
		},
		Redis: RedisConfig{
			DB:       0,
			PoolSize: 50,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
	}
}
