package biz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"golang.org/x/time/rate"

	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/llm"
)

// GeneratorConfig 生成器配置。
type GeneratorConfig struct {
	// BaseURL 模型服务地址。
	BaseURL string
	// Model 模型名称。
	Model string
	// Timeout 单次调用超时。
	Timeout time.Duration
	// RateLimit 每秒最多调用次数，0 表示不限制。
	RateLimit float64
	// Burst 限速器突发容量。
	Burst int
}

// Generator 负责调用生成模型，并将所有失败归一为 ErrGeneration。
// 本层不重试。
type Generator struct {
	chatProvider llm.ChatProvider
	config       *GeneratorConfig
	limiter      *rate.Limiter
}

// NewGenerator 创建生成器实例。地址或模型未配置时返回 ErrConfigMissing。
func NewGenerator(chatProvider llm.ChatProvider, config *GeneratorConfig) (*Generator, error) {
	if err := checkGeneratorConfig(config); err != nil {
		return nil, err
	}
	if chatProvider == nil {
		return nil, secqerrors.ErrConfigMissing.WithMessage("chat provider is not configured")
	}

	g := &Generator{
		chatProvider: chatProvider,
		config:       config,
	}
	if config.RateLimit > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}
	return g, nil
}

// Generate 发送提示词并返回模型输出。
// 超时、远端错误和空响应都返回 ErrGeneration ("Failed to get response from LLM")。
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkGeneratorConfig(g.config); err != nil {
		return "", err
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", secqerrors.ErrGeneration.WithCause(err)
		}
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.chatProvider.Generate(ctx, prompt, "")
	if err != nil {
		logger.Errorw("LLM call failed",
			"provider", g.chatProvider.Name(),
			"model", g.config.Model,
			"elapsed", time.Since(start).String(),
			"error", err.Error(),
		)
		return "", secqerrors.ErrGeneration.WithCause(err)
	}
	if strings.TrimSpace(resp) == "" {
		logger.Errorw("LLM returned an empty response", "provider", g.chatProvider.Name(), "model", g.config.Model)
		return "", secqerrors.ErrGeneration.WithCause(errors.New("empty response"))
	}

	logger.Debugw("LLM answer generated", "model", g.config.Model, "length", len(resp), "elapsed", time.Since(start).String())
	return resp, nil
}

// Model 返回配置的模型名称。
func (g *Generator) Model() string {
	return g.config.Model
}

func checkGeneratorConfig(config *GeneratorConfig) error {
	switch {
	case config == nil:
		return secqerrors.ErrConfigMissing.WithMessage("generator is not configured")
	case strings.TrimSpace(config.BaseURL) == "":
		return secqerrors.ErrConfigMissing.WithMessage("LLM endpoint address is not set")
	case strings.TrimSpace(config.Model) == "":
		return secqerrors.ErrConfigMissing.WithMessage("LLM model name is not set")
	}
	return nil
}
