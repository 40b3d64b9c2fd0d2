package secqsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/secq/pkg/infra/app"
	"github.com/kart-io/secq/pkg/infra/tracing"
)

// shutdownTimeout 退出时刷新追踪数据的超时时间。
const shutdownTimeout = 5 * time.Second

// Run 初始化日志与追踪，执行一次完整的报告生成。
func (cfg *Config) Run(ctx context.Context, opts ...Option) error {
	// 1. 初始化日志
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Flush() }()

	logger.Infow("Starting security questionnaire report",
		"questions", cfg.ReportOptions.QuestionsFile,
		"pdf", cfg.ReportOptions.PDFFile,
		"template", cfg.ReportOptions.TemplatePath(),
		"chat_provider", cfg.ChatOptions.Provider,
		"workers", cfg.RunnerOptions.Workers,
	)

	// 2. 初始化追踪
	if cfg.TracingOptions.ServiceName == "" {
		cfg.TracingOptions.ServiceName = Name
	}
	if cfg.TracingOptions.ServiceVersion == "" {
		cfg.TracingOptions.ServiceVersion = app.GetVersion()
	}
	tp, err := tracing.NewProvider(ctx, cfg.TracingOptions)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warnw("Failed to shutdown tracer provider", "error", err.Error())
		}
	}()

	// 3. 校验依赖并组装流水线
	pipeline, err := cfg.NewPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	// 4. 执行
	path, err := pipeline.Run(ctx)
	if err != nil {
		logger.Errorw("Report generation failed", "error", err.Error())
		return err
	}
	if path != "" {
		logger.Infow("Report generation finished", "path", path)
	}
	return nil
}
