package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/secq/internal/secq/model"
	"github.com/kart-io/secq/pkg/infra/pool"
	"github.com/kart-io/secq/pkg/infra/tracing"
)

// 写入 LLMResponse 的固定文本。
const (
	InvalidFormatResponse = "Invalid question format."
	ErrorResponse         = "Error retrieving response."
	NoRequestResponse     = "No request provided."
	NoContextFound        = "No relevant context found."
)

const (
	outcomeAnswered = "answered"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// Retriever 按问题检索上下文文档。
type Retriever interface {
	Query(ctx context.Context, question string, k int) ([]string, error)
}

// Answerer 根据提示词生成回答。
type Answerer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RunnerConfig 批处理配置。
type RunnerConfig struct {
	// TopK 每个问题检索的文档数。
	TopK int
	// Workers 并发处理的问题数，1 为顺序处理。
	Workers int
}

// Runner 逐条回答问题并写入 LLMResponse。它是 LLMResponse 唯一的写入方。
type Runner struct {
	generator Answerer
	config    *RunnerConfig
	pool      *pool.Pool
}

// NewRunner 创建批处理器。Workers 大于 1 时创建工作池。
func NewRunner(generator Answerer, config *RunnerConfig) (*Runner, error) {
	if config == nil {
		config = &RunnerConfig{TopK: 1, Workers: 1}
	}
	if config.TopK < 1 {
		config.TopK = 1
	}

	r := &Runner{generator: generator, config: config}
	if config.Workers > 1 {
		cfg := pool.DefaultConfig()
		cfg.Capacity = config.Workers
		p, err := pool.NewPool("question-runner", cfg)
		if err != nil {
			return nil, fmt.Errorf("create runner pool: %w", err)
		}
		r.pool = p
	}
	return r, nil
}

// Run 按列表顺序处理每个问题，返回同一列表。
// 格式无效的记录写入 InvalidFormatResponse，检索或生成失败写入 ErrorResponse，
// 记录数量与顺序保持不变。
func (r *Runner) Run(ctx context.Context, questions []*model.Question, index Retriever) []*model.Question {
	logger.Infow("Processing security questions", "count", len(questions), "workers", r.workers())

	for i := range questions {
		questions[i] = ensureQuestion(questions[i])
	}

	if r.pool == nil {
		for i, q := range questions {
			r.process(ctx, index, i, q)
		}
		return questions
	}

	done := make([]bool, len(questions))
	err := r.pool.ForEach(ctx, len(questions), func(i int) {
		r.process(ctx, index, i, questions[i])
		done[i] = true
	})
	if err != nil {
		logger.Warnw("Question batch interrupted", "error", err.Error())
		for i, ok := range done {
			if !ok {
				questions[i].LLMResponse = ErrorResponse
			}
		}
	}

	stats := r.pool.Stats()
	logger.Infow("Question batch finished",
		"pool", r.pool.Name(),
		"submitted", stats.SubmittedTasks,
		"completed", stats.CompletedTasks,
		"panics", stats.PanicRecovered,
		"rejected", stats.RejectedTasks,
	)
	return questions
}

// Stats 返回工作池统计；顺序处理时返回零值。
func (r *Runner) Stats() pool.Stats {
	if r.pool == nil {
		return pool.Stats{}
	}
	return r.pool.Stats()
}

// Answer 检索上下文、构造提示词并生成回答。
func (r *Runner) Answer(ctx context.Context, index Retriever, question string) (string, error) {
	contextText, err := RetrieveContext(ctx, index, question, r.config.TopK)
	if err != nil {
		return "", err
	}
	return r.generator.Generate(ctx, BuildPrompt(contextText, question))
}

// Close 释放工作池。
func (r *Runner) Close() {
	if r.pool != nil {
		r.pool.Release()
	}
}

func (r *Runner) process(ctx context.Context, index Retriever, i int, q *model.Question) {
	id := q.IDOrIndex(i)

	ctx, span := tracing.StartSpan(ctx, tracing.SpanQuestion, tracing.String(tracing.AttrQuestionID, id))
	defer span.End()

	if !q.Valid {
		logger.Errorw("Invalid question format", "question_id", id)
		q.LLMResponse = InvalidFormatResponse
		tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeInvalid))
		return
	}

	logger.Infow("Processing question", "question_id", id, "text", q.Text)

	answer, err := r.Answer(ctx, index, q.Text)
	if err != nil {
		logger.Errorw("Failed to get LLM response", "question_id", id, "error", err.Error())
		q.LLMResponse = ErrorResponse
		tracing.RecordError(ctx, err)
		tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeError))
		return
	}

	q.LLMResponse = answer
	tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeAnswered))
	logger.Infow("LLM response added", "question_id", id)
}

func (r *Runner) workers() int {
	if r.pool == nil {
		return 1
	}
	return r.pool.Cap()
}

// RetrieveContext 返回最相近的文档文本，索引没有结果时返回 NoContextFound。
func RetrieveContext(ctx context.Context, index Retriever, question string, k int) (string, error) {
	if index == nil {
		return NoContextFound, nil
	}
	docs, err := index.Query(ctx, question, k)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	if len(docs) == 0 {
		return NoContextFound, nil
	}
	return strings.Join(docs, "\n\n"), nil
}

func ensureQuestion(q *model.Question) *model.Question {
	if q == nil {
		return &model.Question{}
	}
	return q
}
