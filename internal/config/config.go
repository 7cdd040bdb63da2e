package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/ilyakaznacheev/cleanenv"
)

// Runtime provider names.
const (
	ProviderOllama = "ollama"
	ProviderArk    = "ark"
)

// DefaultSystemPrompt 在请求未携带 system_prompt 时使用。
const DefaultSystemPrompt = `You are a helpful, accurate, and concise assistant.
When answering questions:
- Provide factually correct information
- If you're unsure about something, say so rather than making up information
- Format your responses with proper Markdown for readability
- Use bullet points and numbered lists for clarity when appropriate
- Keep your answers focused and to the point`

// Config 聚合整个服务的配置项。
type Config struct {
	Proxy   ProxyConfig   `yaml:"proxy"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Log     LogConfig     `yaml:"log"`
}

// ProxyConfig 描述模型代理服务的 HTTP 配置。
type ProxyConfig struct {
	Addr string `yaml:"addr" env:"PROXY_ADDR" env-default:":5000"`
}

// AdvisorConfig 描述启发式顾问服务的 HTTP 配置。
type AdvisorConfig struct {
	Addr string `yaml:"addr" env:"ADVISOR_ADDR" env-default:":5001"`
}

// RuntimeConfig 描述本地模型运行时及请求默认值。
type RuntimeConfig struct {
	Provider           string    `yaml:"provider" env:"RUNTIME_PROVIDER" env-default:"ollama"`
	OllamaPath         string    `yaml:"ollama_path" env:"OLLAMA_PATH" env-default:"ollama"`
	OllamaHost         string    `yaml:"ollama_host" env:"OLLAMA_HOST" env-default:"http://localhost:11434"`
	DefaultModel       string    `yaml:"default_model" env:"DEFAULT_MODEL" env-default:"deepseek-r1:1.5b"`
	DefaultTemperature float64   `yaml:"default_temperature" env:"DEFAULT_TEMPERATURE" env-default:"0.7"`
	SystemPrompt       string    `yaml:"system_prompt" env:"SYSTEM_PROMPT"`
	ModelMarker        string    `yaml:"model_marker" env:"MODEL_MARKER" env-default:"deepseek"`
	Ark                ArkConfig `yaml:"ark"`
}

// ArkConfig 描述火山方舟模型配置，仅在 provider=ark 时使用。
type ArkConfig struct {
	APIKey    string `yaml:"api_key" env:"ARK_API_KEY"`
	AccessKey string `yaml:"access_key" env:"ARK_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"ARK_SECRET_KEY"`
	Model     string `yaml:"model" env:"ARK_MODEL"`
	BaseURL   string `yaml:"base_url" env:"ARK_BASE_URL" env-default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region    string `yaml:"region" env:"ARK_REGION" env-default:"cn-beijing"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load 从可选的 YAML 文件与环境变量加载配置。path 为空时只读取环境变量。
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Proxy.Addr = normalizeAddr(c.Proxy.Addr)
	c.Advisor.Addr = normalizeAddr(c.Advisor.Addr)
	c.Runtime.Provider = strings.ToLower(strings.TrimSpace(c.Runtime.Provider))
	if strings.TrimSpace(c.Runtime.SystemPrompt) == "" {
		c.Runtime.SystemPrompt = DefaultSystemPrompt
	}
	// 方舟按推理接入点 ID 路由，本地模型名对它无意义。
	if c.Runtime.Provider == ProviderArk && c.Runtime.Ark.Model != "" {
		c.Runtime.DefaultModel = c.Runtime.Ark.Model
	}
}

// Validate rejects listen addresses the services cannot bind. Runtime settings
// are checked by RuntimeConfig.Validate.
func (c *Config) Validate() error {
	var errs []error
	for name, addr := range map[string]string{"PROXY_ADDR": c.Proxy.Addr, "ADVISOR_ADDR": c.Advisor.Addr} {
		if strings.Contains(addr, " ") {
			errs = append(errs, fmt.Errorf("invalid %s value: %q", name, addr))
		}
	}
	return errors.Join(errs...)
}

// Validate rejects runtime settings the model proxy cannot run with.
func (c RuntimeConfig) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderOllama:
	case ProviderArk:
		if !c.Ark.Enabled() {
			errs = append(errs, errors.New("ark provider requires ARK_MODEL and ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RUNTIME_PROVIDER %q", c.Provider))
	}

	if t := c.DefaultTemperature; t < 0 || t > 2 {
		errs = append(errs, fmt.Errorf("DEFAULT_TEMPERATURE must be within [0, 2], got %v", t))
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		errs = append(errs, errors.New("DEFAULT_MODEL must not be empty"))
	}

	return errors.Join(errs...)
}

// normalizeAddr 允许用户直接传入 "8080"、":8080" 或 "127.0.0.1:8080"。
func normalizeAddr(raw string) string {
	addr := strings.TrimSpace(raw)
	if addr == "" || strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

// BaseURL returns the daemon URL with a scheme, accepting bare host:port values.
func (c RuntimeConfig) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.OllamaHost), "/")
	if host == "" {
		host = "localhost:11434"
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}

// OpenAIBaseURL is the daemon's OpenAI-compatible endpoint.
func (c RuntimeConfig) OpenAIBaseURL() string {
	return c.BaseURL() + "/v1"
}

// DaemonAddr returns host:port for reachability checks.
func (c RuntimeConfig) DaemonAddr() string {
	u, err := url.Parse(c.BaseURL())
	if err != nil || u.Host == "" {
		return "localhost:11434"
	}
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), "11434")
	}
	return u.Host
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个方舟模型实例。
func (c ArkConfig) NewChatModel(ctx context.Context, temperature float64) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	temp := float32(temperature)
	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		Temperature: &temp,
	})
}
