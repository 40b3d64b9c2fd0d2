package secqsvc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/secq/internal/secq/biz"
	"github.com/kart-io/secq/internal/secq/report"
	"github.com/kart-io/secq/internal/secq/store"
	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/infra/tracing"
	"github.com/kart-io/secq/pkg/llm"
	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/secq/pkg/llm/local"
	_ "github.com/kart-io/secq/pkg/llm/ollama"
	_ "github.com/kart-io/secq/pkg/llm/openai"
)

// pingTimeout 可用性探测的超时时间。
const pingTimeout = 10 * time.Second

// Option 配置 Pipeline。
type Option func(*Pipeline)

// WithIngestor 替换文档提取器。
func WithIngestor(ingestor biz.Ingestor) Option {
	return func(p *Pipeline) { p.ingestor = ingestor }
}

// WithChatProvider 替换生成模型供应商。
func WithChatProvider(provider llm.ChatProvider) Option {
	return func(p *Pipeline) { p.chat = provider }
}

// WithEmbeddingProvider 替换 Embedding 供应商。
func WithEmbeddingProvider(provider llm.EmbeddingProvider) Option {
	return func(p *Pipeline) { p.embedder = provider }
}

// WithClock 替换报告时间戳使用的时钟。
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline 持有一次运行所需的全部组件。
// 运行分为两个阶段：Prepare 提取文档并构建索引，Answer 处理问题；最后由 Report 输出报告。
type Pipeline struct {
	cfg *Config

	ingestor  biz.Ingestor
	chat      llm.ChatProvider
	embedder  llm.EmbeddingProvider
	generator *biz.Generator
	runner    *biz.Runner
	now       func() time.Time

	index *store.Index
}

// NewPipeline 校验依赖并创建流水线。依赖校验失败时不会创建任何组件。
func (cfg *Config) NewPipeline(opts ...Option) (*Pipeline, error) {
	if err := cfg.ValidateDependencies(); err != nil {
		logger.Error("Dependency validation failed. Exiting.")
		return nil, err
	}

	p := &Pipeline{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	if p.ingestor == nil {
		p.ingestor = biz.NewPDFIngestor()
	}

	if p.chat == nil {
		chat, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.chatConfigMap())
		if err != nil {
			return nil, secqerrors.ErrConfigInvalid.WithCause(fmt.Errorf("initialize chat provider: %w", err))
		}
		p.chat = chat
	}
	logger.Infow("Chat provider initialized",
		"provider", p.chat.Name(),
		"base_url", cfg.ChatOptions.BaseURL,
		"model", cfg.ChatOptions.Model,
	)

	if p.embedder == nil {
		embOpts := cfg.RAGOptions.Embedding.LLM
		embedder, err := llm.NewEmbeddingProvider(embOpts.Provider, cfg.RAGOptions.EmbeddingConfig())
		if err != nil {
			return nil, secqerrors.ErrConfigInvalid.WithCause(fmt.Errorf("initialize embedding provider: %w", err))
		}
		p.embedder = embedder
	}
	logger.Infow("Embedding provider initialized", "provider", p.embedder.Name())

	generator, err := biz.NewGenerator(p.chat, &biz.GeneratorConfig{
		BaseURL:   cfg.ChatOptions.BaseURL,
		Model:     cfg.ChatOptions.Model,
		Timeout:   cfg.ChatOptions.Timeout,
		RateLimit: cfg.ChatOptions.RateLimit,
		Burst:     cfg.ChatOptions.Burst,
	})
	if err != nil {
		return nil, err
	}
	p.generator = generator

	runner, err := biz.NewRunner(generator, &biz.RunnerConfig{
		TopK:    cfg.RAGOptions.TopK,
		Workers: cfg.RunnerOptions.Workers,
	})
	if err != nil {
		return nil, err
	}
	p.runner = runner

	return p, nil
}

// Prepare 提取源文档文本并构建上下文索引。必须在 Answer 之前完成。
func (p *Pipeline) Prepare(ctx context.Context) error {
	text, err := p.ingestor.ExtractText(ctx, p.cfg.ReportOptions.PDFFile)
	if err != nil {
		return err
	}

	index, err := store.Build(ctx, text, p.embedder, &store.Config{
		Collection: p.cfg.RAGOptions.Collection,
		DocumentID: p.cfg.RAGOptions.DocumentID,
		Metadata:   map[string]string{"source": "pdf"},
	})
	if err != nil {
		logger.Errorw("Failed to create context index", "error", err.Error())
		return err
	}
	p.index = index
	return nil
}

// Answer 读取问题集并逐条回答，然后处理模板中的风险概览请求。
// 问题集无效时返回 ErrInvalidFormat 或 ErrFileNotFound。
func (p *Pipeline) Answer(ctx context.Context) (*report.Data, error) {
	if p.index == nil {
		return nil, secqerrors.ErrIndex.WithMessage("context index is not built, call Prepare first")
	}

	questions, err := biz.LoadQuestions(p.cfg.ReportOptions.QuestionsFile)
	if err != nil {
		return nil, err
	}

	p.ping(ctx)

	data := &report.Data{
		Questions: p.runner.Run(ctx, questions, p.index),
		Document:  filepath.Base(p.cfg.ReportOptions.PDFFile),
		Model:     p.generator.Model(),
	}

	if ro := p.cfg.ReportOptions.RiskOverview; ro != nil && ro.Enabled {
		request, err := report.ExtractRequestFromFile(p.cfg.ReportOptions.TemplatePath(), ro.Section, ro.Request)
		if err != nil {
			logger.Warnw("Failed to read risk overview request", "path", p.cfg.ReportOptions.TemplatePath(), "error", err.Error())
		}
		data.RiskOverview = p.runner.RiskOverview(ctx, p.index, request)
	}

	return data, nil
}

// Report 渲染报告并写入输出目录，返回 HTML 报告路径。
func (p *Pipeline) Report(ctx context.Context, data *report.Data) (path string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.SpanReportRender)
	defer span.End()
	defer func() { tracing.RecordError(ctx, err) }()

	now := p.now()
	data.GeneratedAt = now

	renderer, err := report.NewRenderer(p.cfg.ReportOptions.TemplatePath())
	if err != nil {
		return "", err
	}
	content, err := renderer.Render(data)
	if err != nil {
		return "", err
	}

	outDir := p.cfg.ReportOptions.OutputDir
	path, err = report.Write(outDir, now, content)
	if err != nil {
		return "", err
	}
	tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrPath, path))

	if p.cfg.ReportOptions.XLSX {
		if err := report.WriteXLSX(filepath.Join(outDir, report.XLSXFileName(now)), data); err != nil {
			return path, err
		}
	}
	return path, nil
}

// Run 依次执行 Prepare、Answer、Report。
// 问题集文件格式无效时记录日志并正常返回，不生成报告。
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	if err := p.Prepare(ctx); err != nil {
		return "", err
	}

	data, err := p.Answer(ctx)
	if err != nil {
		if errors.Is(err, secqerrors.ErrInvalidFormat) {
			logger.Errorw("Security questions file is not a valid JSON.", "path", p.cfg.ReportOptions.QuestionsFile, "error", err.Error())
			return "", nil
		}
		return "", err
	}

	return p.Report(ctx, data)
}

// Close 释放流水线持有的资源。
func (p *Pipeline) Close() {
	if p.runner != nil {
		p.runner.Close()
	}
}

// ping 在批处理前探测模型服务，失败只记录警告。
func (p *Pipeline) ping(ctx context.Context) {
	if !p.cfg.ChatOptions.Ping {
		return
	}
	pinger, ok := p.chat.(llm.Pinger)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		logger.Warnw("LLM endpoint is not reachable", "base_url", p.cfg.ChatOptions.BaseURL, "error", err.Error())
		return
	}
	logger.Infow("LLM endpoint is reachable", "base_url", p.cfg.ChatOptions.BaseURL)
}
