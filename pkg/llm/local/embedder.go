// Package local 提供无需网络的本地 Embedding 实现。
//
// 采用特征哈希的词袋向量：每个词经 FNV-1a 哈希映射到固定维度，
// 按词频累加后做 L2 归一化。同一输入在任何进程中都得到相同向量。
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/kart-io/secq/pkg/llm"
)

// ProviderName 本地供应商名称。
const ProviderName = "local"

// DefaultDimensions 默认向量维度。
const DefaultDimensions = 256

func init() {
	llm.RegisterEmbeddingProvider(ProviderName, NewProvider)
}

// Embedder 哈希词袋 Embedding 实现。
type Embedder struct {
	dimensions int
}

// NewProvider 从配置 map 创建本地 Embedding 供应商。
func NewProvider(config map[string]any) (llm.EmbeddingProvider, error) {
	return NewEmbedder(llm.ConfigInt(config, "dimensions", DefaultDimensions)), nil
}

// NewEmbedder 创建指定维度的嵌入器，维度非正时使用默认值。
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// Name 返回供应商名称。
func (e *Embedder) Name() string {
	return ProviderName
}

// Dimensions 返回向量维度。
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Embed 为多个文本生成向量嵌入。
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

// EmbedSingle 为单个文本生成向量嵌入。
func (e *Embedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.vector(text), nil
}

func (e *Embedder) vector(text string) []float32 {
	vec := make([]float32, e.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%uint32(e.dimensions)]++
	}

	// 空文本也必须得到可归一化的向量
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}

	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

// tokenize 按非字母数字字符切分并转为小写。
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
