package store

import (
	"context"
	"fmt"
	"math"

	"github.com/kart-io/logger"
	"github.com/philippgille/chromem-go"

	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/infra/tracing"
	"github.com/kart-io/secq/pkg/llm"
)

const (
	// DefaultCollection 默认集合名称。
	DefaultCollection = "all-my-documents"
	// DefaultDocumentID 源文档在集合中的 ID。
	DefaultDocumentID = "pdf1"
)

// Config 索引配置。
type Config struct {
	// Collection 集合名称。
	Collection string
	// DocumentID 源文档 ID。
	DocumentID string
	// Metadata 写入文档的元数据。
	Metadata map[string]string
}

// DefaultConfig 返回默认索引配置。
func DefaultConfig() *Config {
	return &Config{
		Collection: DefaultCollection,
		DocumentID: DefaultDocumentID,
		Metadata:   map[string]string{"source": "pdf"},
	}
}

// Index 是只包含单个源文档的内存向量索引。
// Build 返回后只读，可并发调用 Query。
type Index struct {
	collection *chromem.Collection
	embed      chromem.EmbeddingFunc
	config     *Config
}

// Build 新建内存数据库与集合，写入源文档文本并返回索引句柄。
// 每次构建都使用新的数据库，集合中不会残留上次运行的文档。
func Build(ctx context.Context, text string, embedder llm.EmbeddingProvider, cfg *Config) (*Index, error) {
	if embedder == nil {
		return nil, secqerrors.ErrIndex.WithMessage("embedding provider is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctx, span := tracing.StartSpan(ctx, tracing.SpanIndexBuild,
		tracing.String("secq.collection", cfg.Collection),
		tracing.String("secq.embedding.provider", embedder.Name()),
	)
	defer span.End()

	embed := embeddingFunc(embedder)

	db := chromem.NewDB()
	collection, err := db.CreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		err = secqerrors.ErrIndex.WithCause(fmt.Errorf("create collection %s: %w", cfg.Collection, err))
		tracing.RecordError(ctx, err)
		return nil, err
	}

	// 先计算向量，空文本也能写入
	vec, err := embed(ctx, text)
	if err != nil {
		err = secqerrors.ErrIndex.WithCause(fmt.Errorf("embed document %s: %w", cfg.DocumentID, err))
		tracing.RecordError(ctx, err)
		return nil, err
	}

	doc := chromem.Document{
		ID:        cfg.DocumentID,
		Content:   text,
		Embedding: vec,
		Metadata:  cfg.Metadata,
	}
	if err := collection.AddDocument(ctx, doc); err != nil {
		err = secqerrors.ErrIndex.WithCause(fmt.Errorf("add document %s: %w", cfg.DocumentID, err))
		tracing.RecordError(ctx, err)
		return nil, err
	}

	logger.Infow("Context index built",
		"collection", cfg.Collection,
		"document_id", cfg.DocumentID,
		"chars", len(text),
		"embedding_provider", embedder.Name(),
		"dimensions", len(vec),
	)

	return &Index{collection: collection, embed: embed, config: cfg}, nil
}

// Query 返回与 question 最相近的最多 k 个文档内容。
// k 会被限制在文档数以内，空索引返回空列表。问题文本先自行计算向量，空字符串同样可以检索。
func (x *Index) Query(ctx context.Context, question string, k int) ([]string, error) {
	if x == nil || x.collection == nil {
		return []string{}, nil
	}

	count := x.collection.Count()
	if count == 0 {
		return []string{}, nil
	}
	if k < 1 {
		k = 1
	}
	if k > count {
		k = count
	}

	vec, err := x.embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := x.collection.QueryEmbedding(ctx, vec, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", x.config.Collection, err)
	}

	docs := make([]string, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Content)
	}
	return docs, nil
}

// Count 返回索引中的文档数。
func (x *Index) Count() int {
	if x == nil || x.collection == nil {
		return 0
	}
	return x.collection.Count()
}

// embeddingFunc 将 EmbeddingProvider 适配为 chromem 的 EmbeddingFunc。
// chromem 要求向量已归一化，远端模型的输出在这里统一归一化。
func embeddingFunc(embedder llm.EmbeddingProvider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := embedder.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("%s returned an empty embedding", embedder.Name())
		}
		return normalize(vec), nil
	}
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = f / norm
	}
	return out
}
