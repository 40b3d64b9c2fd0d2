// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/secq/pkg/options"
)

var (
	_ options.IOptions = (*ProviderOptions)(nil)
	_ options.IOptions = (*Options)(nil)
)

// ProviderOptions 定义 LLM 供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称（ollama, openai, local）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥（OpenAI 等需要）。
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Timeout 单次调用超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// RateLimit 每秒最多发起的调用数，0 表示不限制。
	RateLimit float64 `json:"rate-limit" mapstructure:"rate-limit"`

	// Burst 速率限制的突发容量。
	Burst int `json:"burst" mapstructure:"burst"`

	// Ping 在开始处理前探测服务可用性。
	Ping bool `json:"ping" mapstructure:"ping"`
}

// NewProviderOptions 创建默认 LLM 供应商配置。
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "ollama",
		Timeout:  120 * time.Second,
		Burst:    1,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"embed_model": o.Model,
		"chat_model":  o.Model,
		"timeout":     o.Timeout,
		"max_retries": o.MaxRetries,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Provider, p+"llm.provider", o.Provider, "LLM provider (ollama, openai, local).")
	fs.StringVar(&o.BaseURL, p+"llm.base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, p+"llm.api-key", o.APIKey, "LLM API key.")
	fs.StringVar(&o.Model, p+"llm.model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, p+"llm.timeout", o.Timeout, "Timeout of a single LLM call.")
	fs.IntVar(&o.MaxRetries, p+"llm.max-retries", o.MaxRetries, "LLM maximum number of retries.")
	fs.Float64Var(&o.RateLimit, p+"llm.rate-limit", o.RateLimit, "Maximum LLM calls per second, 0 means unlimited.")
	fs.IntVar(&o.Burst, p+"llm.burst", o.Burst, "Burst size of the LLM rate limiter.")
	fs.BoolVar(&o.Ping, p+"llm.ping", o.Ping, "Check that the LLM endpoint is reachable before processing.")
}

// Validate validates the LLM provider options.
// 地址与模型是否缺失由流水线的依赖检查负责，以便逐项记录。
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("provider is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	if o.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max-retries must not be negative"))
	}
	if o.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate-limit must not be negative"))
	}
	return errs
}

// Complete completes the LLM provider options with defaults.
func (o *ProviderOptions) Complete() error {
	if o.Burst <= 0 {
		o.Burst = 1
	}
	return nil
}

// Options groups a ProviderOptions under the "llm" key, e.g. chat.llm.*.
type Options struct {
	LLM *ProviderOptions `json:"llm" mapstructure:"llm"`
}

// NewChatOptions 创建默认生成模型配置。调用失败不重试。
func NewChatOptions() *Options {
	return &Options{LLM: NewProviderOptions()}
}

// NewEmbeddingOptions 创建默认 Embedding 配置，使用本地嵌入器。
func NewEmbeddingOptions() *Options {
	opts := NewProviderOptions()
	opts.Provider = "local"
	opts.Timeout = 60 * time.Second
	return &Options{LLM: opts}
}

// AddFlags adds the nested provider flags.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	o.LLM.AddFlags(fs, prefixes...)
}

// Validate validates the nested provider options.
func (o *Options) Validate() []error {
	if o == nil || o.LLM == nil {
		return nil
	}
	errs := o.LLM.Validate()
	for i, err := range errs {
		errs[i] = fmt.Errorf("llm: %w", err)
	}
	return errs
}

// Complete completes the nested provider options.
func (o *Options) Complete() error {
	if o.LLM == nil {
		o.LLM = NewProviderOptions()
	}
	return o.LLM.Complete()
}
