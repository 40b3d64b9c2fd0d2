// Package secqsvc 将问卷报告流水线的各组件组装为一次完整运行。
package secqsvc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kart-io/logger"

	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/infra/tracing"
	llmopts "github.com/kart-io/secq/pkg/options/llm"
	logopts "github.com/kart-io/secq/pkg/options/logger"
	ragopts "github.com/kart-io/secq/pkg/options/rag"
	reportopts "github.com/kart-io/secq/pkg/options/report"
	runneropts "github.com/kart-io/secq/pkg/options/runner"
)

// Name is the name of the application.
const Name = "secq"

// Config contains the configuration of a single run.
type Config struct {
	LogOptions     *logopts.Options
	ChatOptions    *llmopts.ProviderOptions
	RAGOptions     *ragopts.Options
	ReportOptions  *reportopts.Options
	RunnerOptions  *runneropts.Options
	TracingOptions *tracing.Options
}

// Requirement 描述一项必需配置，EnvKey 为兼容的环境变量名。
type Requirement struct {
	EnvKey    string
	ConfigKey string
	Value     string
}

// Requirements 返回运行前必须提供的七项配置。
func (cfg *Config) Requirements() []Requirement {
	r := cfg.ReportOptions
	c := cfg.ChatOptions
	return []Requirement{
		{"SECURITY_QUESTIONS_FILE", "report.questions-file", r.QuestionsFile},
		{"TEMPLATE_DIR", "report.template-dir", r.TemplateDir},
		{"TEMPLATE_NAME", "report.template-name", r.TemplateName},
		{"OUTPUT_DIR", "report.output-dir", r.OutputDir},
		{"OLLAMA_API_URL", "chat.llm.base-url", c.BaseURL},
		{"OLLAMA_MODEL", "chat.llm.model", c.Model},
		{"PDF_FILE_NAME", "report.pdf-file", r.PDFFile},
	}
}

// ValidateDependencies 在处理开始前检查必需配置与输入文件。
// 每个缺失项单独记录日志；配置缺失返回 ErrConfigMissing，文件缺失返回 ErrFileNotFound。
func (cfg *Config) ValidateDependencies() error {
	if cfg.ReportOptions == nil || cfg.ChatOptions == nil {
		return secqerrors.ErrConfigMissing.WithMessage("report and chat options are required")
	}

	var missing []string
	for _, req := range cfg.Requirements() {
		if strings.TrimSpace(req.Value) == "" {
			logger.Errorw("Missing required configuration", "env", req.EnvKey, "key", req.ConfigKey)
			missing = append(missing, req.EnvKey)
		}
	}
	if len(missing) > 0 {
		logger.Errorw("Missing environment variables", "variables", strings.Join(missing, ", "))
		return secqerrors.ErrConfigMissing.WithMessagef("missing configuration: %s", strings.Join(missing, ", "))
	}

	files := []struct {
		kind string
		path string
	}{
		{"Template file", cfg.ReportOptions.TemplatePath()},
		{"Security questions file", cfg.ReportOptions.QuestionsFile},
		{"PDF file", cfg.ReportOptions.PDFFile},
	}

	var firstErr error
	for _, f := range files {
		if _, err := os.Stat(f.path); err != nil {
			logger.Errorw(f.kind+" not found", "path", f.path)
			if firstErr == nil {
				if errors.Is(err, fs.ErrNotExist) {
					firstErr = secqerrors.ErrFileNotFound.WithMessagef("%s not found: %s", strings.ToLower(f.kind), f.path)
				} else {
					firstErr = secqerrors.ErrFileNotFound.WithCause(fmt.Errorf("stat %s: %w", f.path, err))
				}
			}
		}
	}
	return firstErr
}

// chatConfigMap 返回生成模型供应商的工厂配置。生成调用不重试。
func (cfg *Config) chatConfigMap() map[string]any {
	m := cfg.ChatOptions.ToConfigMap()
	m["max_retries"] = 0
	return m
}
