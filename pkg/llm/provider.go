// Package llm 提供统一的 LLM 供应商抽象层。
// Embedding 与生成可以使用不同供应商的模型。
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// EmbeddingProvider 定义 Embedding 供应商接口。
type EmbeddingProvider interface {
	// Embed 为多个文本生成向量嵌入。
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle 为单个文本生成向量嵌入。
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Name 返回供应商名称。
	Name() string
}

// ChatProvider 定义文本生成供应商接口。
type ChatProvider interface {
	// Generate 根据提示生成文本（单轮，非流式）。
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)

	// Name 返回供应商名称。
	Name() string
}

// Pinger 由能够探测远端可用性的供应商实现。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Provider 同时支持 Embedding 和生成的完整供应商。
type Provider interface {
	EmbeddingProvider
	ChatProvider
}

// ProviderFactory 供应商工厂函数类型。
type ProviderFactory func(config map[string]any) (Provider, error)

// EmbeddingProviderFactory Embedding 供应商工厂函数类型。
type EmbeddingProviderFactory func(config map[string]any) (EmbeddingProvider, error)

type providerRegistry struct {
	mu        sync.RWMutex
	full      map[string]ProviderFactory
	embedding map[string]EmbeddingProviderFactory
}

var registry = &providerRegistry{
	full:      make(map[string]ProviderFactory),
	embedding: make(map[string]EmbeddingProviderFactory),
}

// RegisterProvider 注册完整供应商工厂。
func RegisterProvider(name string, factory ProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.full[name] = factory
}

// RegisterEmbeddingProvider 注册仅提供 Embedding 的供应商工厂。
func RegisterEmbeddingProvider(name string, factory EmbeddingProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.embedding[name] = factory
}

// NewChatProvider 根据名称创建生成供应商实例。
func NewChatProvider(name string, config map[string]any) (ChatProvider, error) {
	registry.mu.RLock()
	factory, ok := registry.full[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown chat provider: %s", name)
	}
	return factory(config)
}

// NewEmbeddingProvider 根据名称创建 Embedding 供应商实例。
// 优先查找专用 Embedding 工厂，其次查找完整供应商工厂。
func NewEmbeddingProvider(name string, config map[string]any) (EmbeddingProvider, error) {
	registry.mu.RLock()
	embFactory, embOK := registry.embedding[name]
	fullFactory, fullOK := registry.full[name]
	registry.mu.RUnlock()

	switch {
	case embOK:
		return embFactory(config)
	case fullOK:
		return fullFactory(config)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", name)
	}
}

// ListProviders 按名称排序列出所有已注册的供应商。
func ListProviders() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]struct{}, len(registry.full)+len(registry.embedding))
	for name := range registry.full {
		seen[name] = struct{}{}
	}
	for name := range registry.embedding {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigString 从工厂配置中读取字符串，缺失时返回默认值。
func ConfigString(config map[string]any, key, def string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return def
}

// ConfigInt 从工厂配置中读取整数，兼容 float64 等数值类型。
func ConfigInt(config map[string]any, key string, def int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
