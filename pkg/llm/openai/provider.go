// Package openai 提供 OpenAI 兼容 API 的 LLM 供应商实现。
// 同时支持 OpenAI 官方 API 和兼容服务（LocalAI、vLLM、Ollama 的 /v1 端点等）。
//
//	import _ "github.com/kart-io/secq/pkg/llm/openai"
//
//	provider, err := llm.NewChatProvider("openai", map[string]any{
//	    "base_url":   "http://localhost:11434/v1",
//	    "chat_model": "llama3",
//	})
package openai

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kart-io/secq/pkg/llm"
)

// ProviderName 是 OpenAI 供应商的名称标识符
const ProviderName = "openai"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// Config OpenAI 供应商配置。
type Config struct {
	// BaseURL API 基础地址，可设置为兼容 API 地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey API 密钥。本地兼容服务可为空。
	APIKey string `json:"api_key" mapstructure:"api_key"`

	EmbedModel string `json:"embed_model" mapstructure:"embed_model"`
	ChatModel  string `json:"chat_model" mapstructure:"chat_model"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Temperature 为 0 时使用 API 默认值。
	Temperature float32 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens 为 0 时使用 API 默认值。
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		EmbedModel: string(goopenai.SmallEmbedding3),
		Timeout:    120 * time.Second,
	}
}

// Provider OpenAI 供应商实现。
type Provider struct {
	config *Config
	client *goopenai.Client
}

// NewProvider 从配置 map 创建 OpenAI 供应商。
func NewProvider(configMap map[string]any) (llm.Provider, error) {
	cfg := DefaultConfig()

	cfg.BaseURL = llm.ConfigString(configMap, "base_url", cfg.BaseURL)
	cfg.APIKey = llm.ConfigString(configMap, "api_key", cfg.APIKey)
	cfg.EmbedModel = llm.ConfigString(configMap, "embed_model", cfg.EmbedModel)
	cfg.ChatModel = llm.ConfigString(configMap, "chat_model", cfg.ChatModel)
	cfg.MaxTokens = llm.ConfigInt(configMap, "max_tokens", cfg.MaxTokens)
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["temperature"].(float64); ok {
		cfg.Temperature = float32(v)
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 OpenAI 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Provider{
		config: cfg,
		client: goopenai.NewClientWithConfig(clientConfig),
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// Embed 为多个文本生成向量嵌入，按输入顺序返回。
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(p.config.EmbedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	out := make([][]float32, len(data))
	for i, d := range data {
		out[i] = d.Embedding
	}
	return out, nil
}

// EmbedSingle 为单个文本生成向量嵌入。
func (p *Provider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Generate 通过 chat completions 接口单轮生成文本。
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	if p.config.ChatModel == "" {
		return "", fmt.Errorf("openai generate: model is not configured")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.config.ChatModel,
		Messages:    messages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Ping 通过列出模型检查服务是否可用。
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai unavailable at %s: %w", p.config.BaseURL, err)
	}
	return nil
}
